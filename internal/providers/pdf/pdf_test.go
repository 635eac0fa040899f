package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_NormalizesFormats(t *testing.T) {
	raw := samplePNG(t)
	img, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, extension.Png, img.Ext)
	assert.Equal(t, raw, img.Data)

	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.White, color.Black}), nil))
	converted, err := Decode(gifBuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, extension.Png, converted.Ext)
	assert.Equal(t, "image/png", http.DetectContentType(converted.Data))

	_, err = Decode([]byte("<svg xmlns='http://www.w3.org/2000/svg'/>"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestFetcher_SkipsFailures(t *testing.T) {
	pngData := samplePNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(pngData)
		case "/text":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), zap.NewNop())
	images := f.FetchAll(context.Background(), []string{
		srv.URL + "/ok.png",
		srv.URL + "/missing.png",
		"",
		srv.URL + "/text",
		srv.URL + "/ok.png",
	})
	require.Len(t, images, 5)
	assert.NotNil(t, images[0])
	assert.Nil(t, images[1])
	assert.Nil(t, images[2])
	assert.Nil(t, images[3])
	assert.NotNil(t, images[4])
}

func TestRenderer_ProducesPDFs(t *testing.T) {
	img, err := Decode(samplePNG(t))
	require.NoError(t, err)
	brand := Branding{CompanyName: "Homestead Builders", Phone: "555-0100", Disclaimer: "Subject to change."}
	r := NewRenderer()
	ctx := context.Background()

	brochure, err := r.Brochure(ctx, brand, Sheet{
		Title:  "The Magnolia",
		Price:  "$412,000",
		Specs:  []Spec{{Label: "Beds", Value: "4"}, {Label: "Baths", Value: "2.5"}, {Label: "Sq Ft", Value: "2,450"}},
		Images: []*Image{img, nil, img},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(brochure, []byte("%PDF")))

	flyer, err := r.Flyer(ctx, brand, Flyer{Title: "Available Homes", Cards: []FlyerCard{
		{Title: "12 Oak Lane", Price: "$389,900", Status: "available", Image: img},
		{Title: "14 Oak Lane", Price: "$402,500", Status: "sold"},
		{Title: "16 Oak Lane", Price: "$415,000", Status: "under_contract", Image: img},
	}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(flyer, []byte("%PDF")))

	book, err := r.SelectionBook(ctx, brand, SelectionSummary{
		CustomerName:  "Dana Reyes",
		TotalUpgrades: "$12,500",
		Lines:         []SelectionLine{{Category: "Flooring", Choice: "Tile"}},
		Notes:         "Wants a walk-in pantry.",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(book, []byte("%PDF")))

	_, err = r.Flyer(ctx, brand, Flyer{Title: "Empty"})
	assert.ErrorIs(t, err, ErrNothingToRender)
	_, err = r.Brochure(ctx, brand, Sheet{})
	assert.ErrorIs(t, err, ErrNothingToRender)
}
