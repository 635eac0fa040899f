package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/smallbiznis/homestead/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectPlan          = "plan"
	ObjectProperty      = "property"
	ObjectLot           = "lot"
	ObjectGallery       = "gallery"
	ObjectTestimonial   = "testimonial"
	ObjectCatalog       = "catalog"
	ObjectConfiguration = "configuration"
	ObjectSelectionBook = "selection_book"
	ObjectLead          = "lead"
	ObjectUpload        = "upload"
	ObjectAuditLog      = "audit_log"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, subject string, role string, object string, action string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return ErrInvalidActor
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !KnownRole(role) {
		s.auditDenied(ctx, subject, role, object, action)
		return ErrForbidden
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	user := "user:" + subject
	if err := s.ensureGrouping(user, roleName(role)); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(user, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, subject, role, object, action)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps exactly one role link per user. The role comes from
// the identity provider and may change between requests.
func (s *ServiceImpl) ensureGrouping(user string, role string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, user)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == role {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		if _, err := s.enforcer.RemoveGroupingPolicy(params...); err != nil {
			s.log.Warn("failed to drop stale role link", zap.String("subject", user), zap.Error(err))
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(user, role)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(user, role)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, subject, role, object, action string) {
	if s.auditSvc == nil {
		return
	}
	targetID := fmt.Sprintf("%s.%s", object, action)
	_ = s.auditSvc.AuditLog(ctx, string(auditdomain.ActorTypeUser), &subject, "authorization.denied", "authorization", &targetID, map[string]any{
		"object": object,
		"action": action,
		"role":   role,
	})
}

func roleName(role string) string {
	return "role:" + role
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{roleName(RoleAdmin), "*", "*"},
	}

	for _, object := range []string{ObjectPlan, ObjectProperty, ObjectLot, ObjectGallery, ObjectTestimonial, ObjectCatalog} {
		for _, action := range []string{ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			policies = append(policies, []string{roleName(RoleEditor), object, action})
		}
	}
	for _, object := range []string{ObjectConfiguration, ObjectSelectionBook} {
		for _, action := range []string{ActionView, ActionCreate, ActionUpdate} {
			policies = append(policies, []string{roleName(RoleEditor), object, action})
		}
	}
	policies = append(policies,
		[]string{roleName(RoleEditor), ObjectLead, ActionView},
		[]string{roleName(RoleEditor), ObjectLead, ActionUpdate},
		[]string{roleName(RoleEditor), ObjectUpload, ActionCreate},
	)

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
