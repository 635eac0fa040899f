package pdf

import (
	"context"
	"errors"
)

var ErrNothingToRender = errors.New("nothing_to_render")

// Branding is the company block printed on every document.
type Branding struct {
	CompanyName string
	Tagline     string
	Phone       string
	Email       string
	Address     string
	Website     string
	Disclaimer  string
	Logo        *Image
}

type Spec struct {
	Label string
	Value string
}

// Sheet is a single-listing brochure for a plan or an available home.
type Sheet struct {
	Title       string
	Subtitle    string
	Price       string
	Badge       string
	Specs       []Spec
	Description string
	Images      []*Image
}

type FlyerCard struct {
	Title   string
	Address string
	Price   string
	Specs   string
	Status  string
	Image   *Image
}

type Flyer struct {
	Title string
	Cards []FlyerCard
}

type SelectionLine struct {
	Category string
	Choice   string
}

type SelectionSummary struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PlanName      string
	LotLabel      string
	Status        string
	TotalUpgrades string
	Notes         string
	PreparedBy    string
	Date          string
	Lines         []SelectionLine
}

// Renderer lays out documents. Images must already be fetched.
type Renderer interface {
	Brochure(ctx context.Context, brand Branding, sheet Sheet) ([]byte, error)
	Flyer(ctx context.Context, brand Branding, flyer Flyer) ([]byte, error)
	SelectionBook(ctx context.Context, brand Branding, summary SelectionSummary) ([]byte, error)
}
