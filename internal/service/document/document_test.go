package document

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/metrics"
)

type staticFonts struct {
	fonts *Fonts
	err   error
}

func (s staticFonts) Load(ctx context.Context) (*Fonts, error) {
	return s.fonts, s.err
}

func (s staticFonts) Invalidate() {}

type badFonts struct {
	invalidated int
}

func (b *badFonts) Load(ctx context.Context) (*Fonts, error) {
	return &Fonts{Regular: fakeTTF("regular"), Bold: fakeTTF("bold")}, nil
}

func (b *badFonts) Invalidate() {
	b.invalidated++
}

// fakeTTF has a valid sfnt tag and no usable tables.
func fakeTTF(name string) []byte {
	return append([]byte{0x00, 0x01, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}, name...)
}

func testPatient() *model.Patient {
	return &model.Patient{
		ID:                 uuid.New(),
		FirstName:          "Łukasz",
		LastName:           "Żółkiewski",
		Pesel:              "90010112345",
		BirthDate:          "1990-01-01",
		IDSeries:           "ABC123456",
		Address:            "ul. Długa 5, Gdańsk",
		Voivodeship:        "pomorskie",
		Phone:              "600 100 200",
		Email:              "lukasz@example.com",
		ApplicationDate:    "2024-05-01",
		TreatmentStartDate: "2024-05-06",
		TreatmentEndDate:   "2024-06-02",
		Package:            model.Package2,
		TotalAmount:        18000,
		AmountPaid:         2500,
		PaymentDeadline:    "2024-05-06",
	}
}

func newFallbackService() *Service {
	return NewService(staticFonts{err: errors.New("offline")}, logger.Nop(), metrics.New("test"))
}

func TestContract_HasFourPages(t *testing.T) {
	doc, err := newFallbackService().Contract(context.Background(), testPatient())
	require.NoError(t, err)

	assert.Equal(t, "Umowa_Żółkiewski_Łukasz.pdf", doc.Filename)
	assert.Equal(t, ContentTypePDF, doc.ContentType)
	assert.Equal(t, 4, doc.Pages)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
}

func TestCard_HasTwoPages(t *testing.T) {
	doc, err := newFallbackService().Card(context.Background(), testPatient())
	require.NoError(t, err)

	assert.Equal(t, "Karta_Pacjenta_Żółkiewski_Łukasz.pdf", doc.Filename)
	assert.Equal(t, 2, doc.Pages)
	assert.NotEmpty(t, doc.Content)
}

func TestRegulations_HasTwoPages(t *testing.T) {
	doc, err := newFallbackService().Regulations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Regulamin_MyWay.pdf", doc.Filename)
	assert.Equal(t, 2, doc.Pages)
}

func TestContract_EmptyPatientStillRenders(t *testing.T) {
	doc, err := newFallbackService().Contract(context.Background(), &model.Patient{FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Pages)
}

func TestInvalidFontDataFallsBack(t *testing.T) {
	fonts := &badFonts{}
	svc := NewService(fonts, logger.Nop(), metrics.New("test"))

	doc, err := svc.Card(context.Background(), testPatient())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)

	doc, err = svc.Regulations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
	assert.Equal(t, 2, fonts.invalidated)
}

func TestFontServedAsHTMLFallsBack(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("<html>captive portal</html>"))
	}))
	defer srv.Close()

	loader := NewFontLoader(FontConfig{RegularURL: srv.URL + "/regular.ttf", BoldURL: srv.URL + "/bold.ttf"})
	svc := NewService(loader, logger.Nop(), metrics.New("test"))

	doc, err := svc.Contract(context.Background(), testPatient())
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Pages)

	_, err = loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidFont)

	doc, err = svc.Regulations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestFontLoader_CachesDownloads(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(fakeTTF(r.URL.Path))
	}))
	defer srv.Close()

	loader := NewFontLoader(FontConfig{RegularURL: srv.URL + "/regular.ttf", BoldURL: srv.URL + "/bold.ttf"})

	fonts, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeTTF("/regular.ttf"), fonts.Regular)
	assert.Equal(t, fakeTTF("/bold.ttf"), fonts.Bold)

	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestFontLoader_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFontLoader(FontConfig{}).Load(context.Background())
	assert.ErrorIs(t, err, ErrNoFont)

	_, err = NewFontLoader(FontConfig{RegularURL: srv.URL, BoldURL: srv.URL}).Load(context.Background())
	assert.ErrorContains(t, err, "status 404")
}

func TestFontLoader_RemembersFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	loader := NewFontLoader(FontConfig{RegularURL: srv.URL + "/r.ttf", BoldURL: srv.URL + "/b.ttf", FailureTTL: time.Minute})
	for i := 0; i < 3; i++ {
		_, err := loader.Load(context.Background())
		assert.ErrorContains(t, err, "status 502")
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestFontLoader_InvalidateEvicts(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(fakeTTF(r.URL.Path))
	}))
	defer srv.Close()

	loader := NewFontLoader(FontConfig{RegularURL: srv.URL + "/r.ttf", BoldURL: srv.URL + "/b.ttf", FailureTTL: 20 * time.Millisecond})
	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	loader.Invalidate()
	_, err = loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidFont)

	time.Sleep(40 * time.Millisecond)
	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, atomic.LoadInt32(&hits))
}

func TestFallbackFoldsPolishLetters(t *testing.T) {
	assert.Equal(t, "Zazólc gesla jazn", polishFold.Replace("Zażółć gęślą jaźń"))

	tr := cp1252(newPDF())
	assert.Equal(t, "L\xf3dz", tr("Łódź"))
}
