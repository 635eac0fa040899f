package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/smallbiznis/homestead/internal/document/domain"
	"github.com/smallbiznis/homestead/internal/observability/metrics"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
	propertydomain "github.com/smallbiznis/homestead/internal/property/domain"
	"github.com/smallbiznis/homestead/internal/providers/pdf"
	selectionbookdomain "github.com/smallbiznis/homestead/internal/selectionbook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const brochureImages = 5

// ImageFetcher downloads listing images; failed entries come back nil.
type ImageFetcher interface {
	FetchAll(ctx context.Context, urls []string) []*pdf.Image
}

type Params struct {
	fx.In

	Log              *zap.Logger
	Clock            clock.Clock
	Site             *config.SiteConfigHolder
	Renderer         pdf.Renderer
	Fetcher          *pdf.Fetcher
	PlanSvc          plandomain.Service
	PropertySvc      propertydomain.Service
	SelectionBookSvc selectionbookdomain.Service
	Metrics          *metrics.Metrics `optional:"true"`
}

type Service struct {
	log              *zap.Logger
	clock            clock.Clock
	site             *config.SiteConfigHolder
	renderer         pdf.Renderer
	fetcher          ImageFetcher
	planSvc          plandomain.Service
	propertySvc      propertydomain.Service
	selectionBookSvc selectionbookdomain.Service
	metrics          *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:              p.Log.Named("document.service"),
		clock:            p.Clock,
		site:             p.Site,
		renderer:         p.Renderer,
		fetcher:          p.Fetcher,
		planSvc:          p.PlanSvc,
		propertySvc:      p.PropertySvc,
		selectionBookSvc: p.SelectionBookSvc,
		metrics:          p.Metrics,
	}
}

func (s *Service) PlanBrochure(ctx context.Context, ref string) (domain.Document, error) {
	plan, err := s.planSvc.Get(ctx, ref, true)
	if err != nil {
		if errors.Is(err, plandomain.ErrNotFound) || errors.Is(err, plandomain.ErrInvalidID) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, err
	}

	urls := make([]string, 0, brochureImages+1)
	for _, img := range plan.Images {
		if len(urls) == brochureImages {
			break
		}
		urls = append(urls, img.URL)
	}
	if plan.FloorPlanURL != "" {
		urls = append(urls, plan.FloorPlanURL)
	}

	return s.render(ctx, "plan_brochure", plan.Slug, func(brand pdf.Branding) ([]byte, error) {
		sheet := pdf.Sheet{
			Title:       plan.Name,
			Subtitle:    storiesLabel(plan.Stories),
			Price:       "From " + domain.FormatPrice(plan.BasePrice),
			Description: plan.Description,
			Images:      s.fetcher.FetchAll(ctx, urls),
			Specs: nonEmptySpecs(
				pdf.Spec{Label: "Bedrooms", Value: countOrEmpty(plan.Bedrooms)},
				pdf.Spec{Label: "Bathrooms", Value: bathsOrEmpty(plan.Bathrooms)},
				pdf.Spec{Label: "Square Feet", Value: sqftOrEmpty(plan.SquareFeet)},
				pdf.Spec{Label: "Garage", Value: countOrEmpty(plan.GarageSpaces)},
			),
		}
		if plan.BasePrice <= 0 {
			sheet.Price = domain.FormatPrice(0)
		}
		return s.renderer.Brochure(ctx, brand, sheet)
	})
}

func (s *Service) PropertyBrochure(ctx context.Context, ref string) (domain.Document, error) {
	property, err := s.propertySvc.Get(ctx, ref, true)
	if err != nil {
		if errors.Is(err, propertydomain.ErrNotFound) || errors.Is(err, propertydomain.ErrInvalidID) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, err
	}

	urls := make([]string, 0, brochureImages)
	for _, img := range property.Images {
		if len(urls) == brochureImages {
			break
		}
		urls = append(urls, img.URL)
	}

	return s.render(ctx, "property_brochure", property.Slug, func(brand pdf.Branding) ([]byte, error) {
		subtitle := property.FullAddress()
		if name := property.PlanName(); name != "" {
			subtitle = joinNonEmpty(" | ", subtitle, "The "+name+" plan")
		}
		return s.renderer.Brochure(ctx, brand, pdf.Sheet{
			Title:       property.Title,
			Subtitle:    subtitle,
			Price:       domain.FormatPrice(property.Price),
			Badge:       property.Status.Label(),
			Description: property.Description,
			Images:      s.fetcher.FetchAll(ctx, urls),
			Specs: nonEmptySpecs(
				pdf.Spec{Label: "Bedrooms", Value: countOrEmpty(property.Bedrooms)},
				pdf.Spec{Label: "Bathrooms", Value: bathsOrEmpty(property.Bathrooms)},
				pdf.Spec{Label: "Square Feet", Value: sqftOrEmpty(property.SquareFeet)},
				pdf.Spec{Label: "Lot", Value: property.LotSize},
			),
		})
	})
}

// PropertyFlyer checks the id count before touching storage or fetching
// any image.
func (s *Service) PropertyFlyer(ctx context.Context, ids []snowflake.ID) (domain.Document, error) {
	if len(ids) == 0 {
		return domain.Document{}, domain.ErrInvalidIDs
	}
	if len(ids) > domain.MaxFlyerProperties {
		return domain.Document{}, domain.ErrTooManyProperties
	}

	properties, err := s.propertySvc.GetMany(ctx, ids)
	if err != nil {
		return domain.Document{}, err
	}
	if len(properties) == 0 {
		return domain.Document{}, domain.ErrNotFound
	}

	urls := make([]string, len(properties))
	for i, p := range properties {
		urls[i] = p.PrimaryImage()
	}

	return s.render(ctx, "property_flyer", "property-flyer", func(brand pdf.Branding) ([]byte, error) {
		images := s.fetcher.FetchAll(ctx, urls)
		cards := make([]pdf.FlyerCard, len(properties))
		for i, p := range properties {
			cards[i] = pdf.FlyerCard{
				Title:   p.Title,
				Address: p.FullAddress(),
				Price:   domain.FormatPrice(p.Price),
				Specs:   domain.SpecLine(p.Bedrooms, p.Bathrooms, p.SquareFeet),
				Status:  p.Status.Label(),
				Image:   images[i],
			}
		}
		return s.renderer.Flyer(ctx, brand, pdf.Flyer{Title: s.site.Get().FlyerTitle, Cards: cards})
	})
}

func (s *Service) SelectionBookSummary(ctx context.Context, id snowflake.ID) (domain.Document, error) {
	book, err := s.selectionBookSvc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, selectionbookdomain.ErrNotFound) || errors.Is(err, selectionbookdomain.ErrInvalidID) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, err
	}

	name := joinNonEmpty("-", "selection-book", book.CustomerName, book.ID.String())
	return s.render(ctx, "selection_book", name, func(brand pdf.Branding) ([]byte, error) {
		entries := book.Entries()
		lines := make([]pdf.SelectionLine, 0, len(entries))
		for _, entry := range entries {
			lines = append(lines, pdf.SelectionLine{Category: entry.Category, Choice: strings.Join(entry.Choices, ", ")})
		}
		return s.renderer.SelectionBook(ctx, brand, pdf.SelectionSummary{
			CustomerName:  book.CustomerName,
			CustomerEmail: book.CustomerEmail,
			CustomerPhone: book.CustomerPhone,
			PlanName:      book.PlanName,
			LotLabel:      book.LotLabel,
			Status:        string(book.Status),
			TotalUpgrades: domain.FormatAmount(book.TotalUpgrades),
			Notes:         book.Notes,
			PreparedBy:    book.CreatedBy,
			Date:          book.UpdatedAt.UTC().Format("January 2, 2006"),
			Lines:         lines,
		})
	})
}

func (s *Service) render(ctx context.Context, kind, name string, fn func(pdf.Branding) ([]byte, error)) (domain.Document, error) {
	start := s.clock.Now()
	data, err := fn(s.branding(ctx))
	elapsed := s.clock.Now().Sub(start)
	s.metrics.RecordDocumentRendered(ctx, kind, elapsed, err)
	if err != nil {
		s.log.Error("document render failed", zap.String("document", kind), zap.Error(err))
		return domain.Document{}, fmt.Errorf("render %s: %w", kind, err)
	}

	filename := slug.Make(name)
	if filename == "" {
		filename = strings.ReplaceAll(kind, "_", "-")
	}
	s.log.Debug("document rendered",
		zap.String("document", kind),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", elapsed),
	)
	return domain.Document{Filename: filename + ".pdf", Data: data}, nil
}

func (s *Service) branding(ctx context.Context) pdf.Branding {
	site := s.site.Get()
	brand := pdf.Branding{
		CompanyName: site.CompanyName,
		Tagline:     site.Tagline,
		Phone:       site.Phone,
		Email:       site.Email,
		Address:     site.Address,
		Website:     site.Website,
		Disclaimer:  site.Disclaimer,
	}
	brand.Logo = s.logo(ctx, strings.TrimSpace(site.LogoPath))
	return brand
}

func (s *Service) logo(ctx context.Context, path string) *pdf.Image {
	switch {
	case path == "":
		return nil
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return s.fetcher.FetchAll(ctx, []string{path})[0]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("logo unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	img, err := pdf.Decode(data)
	if err != nil {
		s.log.Warn("logo unreadable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return img
}

func storiesLabel(stories int) string {
	switch {
	case stories <= 1:
		return "Single story"
	default:
		return fmt.Sprintf("%d stories", stories)
	}
}

func countOrEmpty(n int) string {
	if n <= 0 {
		return ""
	}
	return domain.FormatCount(n)
}

func bathsOrEmpty(n float64) string {
	if n <= 0 {
		return ""
	}
	return domain.FormatBaths(n)
}

func sqftOrEmpty(n int) string {
	if n <= 0 {
		return ""
	}
	return domain.FormatCount(n)
}

func nonEmptySpecs(specs ...pdf.Spec) []pdf.Spec {
	out := make([]pdf.Spec, 0, len(specs))
	for _, spec := range specs {
		if strings.TrimSpace(spec.Value) != "" {
			out = append(out, spec)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
