package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/suite"

	"kilroy/internal/blob"
	"kilroy/internal/circle"
	"kilroy/internal/config"
	httpx "kilroy/internal/http"
	"kilroy/internal/kilroy"
	"kilroy/internal/place"
	"kilroy/internal/session"
	"kilroy/internal/verify"
)

type HandlerSuite struct {
	suite.Suite
	srv    *httptest.Server
	tokens *session.Tokens
	token  string
}

func (s *HandlerSuite) SetupTest() {
	cfg := config.Config{Blob: config.Blob{Backend: "memory"}}
	s.tokens = session.NewTokens("test-secret")

	resolver := place.NewResolver(place.NewMemoryCache(), place.NewHTTPProvider("", ""))
	svc := &kilroy.Service{Store: kilroy.NewMemoryStore(), Blobs: blob.NewMemoryStore()}

	router := httpx.NewRouter(cfg, s.tokens, resolver, svc, verify.Bypass{})
	s.srv = httptest.NewServer(router)

	s.token = s.startSession()
}

func (s *HandlerSuite) TearDownTest() {
	s.srv.Close()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, token string, body *bytes.Buffer, contentType string) *http.Response {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, s.srv.URL+path, body)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *HandlerSuite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *HandlerSuite) startSession() string {
	resp := s.do(http.MethodPost, "/session", "", nil, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Token       string `json:"token"`
		Geolocation struct {
			HighAccuracy bool `json:"high_accuracy"`
			TimeoutMS    int  `json:"timeout_ms"`
			MaximumAgeMS int  `json:"maximum_age_ms"`
		} `json:"geolocation"`
	}
	s.decode(resp, &body)
	s.Require().NotEmpty(body.Token)
	s.True(body.Geolocation.HighAccuracy)
	s.Equal(10000, body.Geolocation.TimeoutMS)
	s.Equal(60000, body.Geolocation.MaximumAgeMS)
	return body.Token
}

func (s *HandlerSuite) sendLocation(token string, lat, lng float64) place.Place {
	payload := fmt.Sprintf(`{"latitude": %f, "longitude": %f}`, lat, lng)
	resp := s.do(http.MethodPost, "/location", token, bytes.NewBufferString(payload), "application/json")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Place      place.Place `json:"place"`
		HasKilroys bool        `json:"has_kilroys"`
	}
	s.decode(resp, &body)
	return body.Place
}

func pngUpload(s *HandlerSuite, caption, circleValue string) (*bytes.Buffer, string) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 25), G: uint8(y * 25), A: 255})
		}
	}
	var pngBuf bytes.Buffer
	s.Require().NoError(png.Encode(&pngBuf, img))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	s.Require().NoError(err)
	_, err = part.Write(pngBuf.Bytes())
	s.Require().NoError(err)

	s.Require().NoError(w.WriteField("caption", caption))
	if circleValue != "" {
		s.Require().NoError(w.WriteField("circle", circleValue))
	}
	s.Require().NoError(w.Close())

	return &body, w.FormDataContentType()
}

func (s *HandlerSuite) TestRequiresAuth() {
	resp := s.do(http.MethodGet, "/kilroys", "", nil, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlerSuite) TestListBeforeLocationConflicts() {
	resp := s.do(http.MethodGet, "/kilroys", s.token, nil, "")
	s.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlerSuite) TestLocationDenied() {
	resp := s.do(http.MethodPost, "/location", s.token, bytes.NewBufferString(`{"denied": true}`), "application/json")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body map[string]any
	s.decode(resp, &body)
	s.Equal(true, body["location_denied"])
}

func (s *HandlerSuite) TestLocationRejectsBadCoordinates() {
	resp := s.do(http.MethodPost, "/location", s.token, bytes.NewBufferString(`{"latitude": 91, "longitude": 0}`), "application/json")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlerSuite) TestDropAndViewFlow() {
	p := s.sendLocation(s.token, 51.5074, -0.1278)
	s.Equal("geo_51.5074_-0.1278", p.PlaceID)

	// nothing here yet
	resp := s.do(http.MethodGet, "/kilroys", s.token, nil, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var listed []kilroy.Kilroy
	s.decode(resp, &listed)
	s.Empty(listed)

	// leave something
	body, contentType := pngUpload(s, "was here", "")
	resp = s.do(http.MethodPost, "/kilroys", s.token, body, contentType)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created kilroy.Kilroy
	s.decode(resp, &created)
	s.NotEmpty(created.ID)
	s.Equal(p.PlaceID, created.PlaceID)
	s.Equal("was here", created.Caption)
	s.Equal(circle.Community, created.Circle)
	s.Contains(created.ImageURL, "memory://kilroys/"+p.PlaceID+"/")

	// and see it
	resp = s.do(http.MethodGet, "/kilroys", s.token, nil, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &listed)
	s.Require().Len(listed, 1)
	s.Equal(created.ID, listed[0].ID)

	// arrival check flips on
	p2 := s.sendLocationWithHasCheck(s.token)
	s.True(p2)
}

// sendLocationWithHasCheck re-posts the location for the same session and
// returns the has_kilroys flag (place is sticky, so coordinates differ).
func (s *HandlerSuite) sendLocationWithHasCheck(token string) bool {
	resp := s.do(http.MethodPost, "/location", token, bytes.NewBufferString(`{"latitude": 0, "longitude": 0}`), "application/json")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		HasKilroys bool `json:"has_kilroys"`
	}
	s.decode(resp, &body)
	return body.HasKilroys
}

func (s *HandlerSuite) TestInvalidCircleRejected() {
	s.sendLocation(s.token, 1, 1)

	resp := s.do(http.MethodGet, "/kilroys?circle=world", s.token, nil, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	body, contentType := pngUpload(s, "hm", "everyone")
	resp = s.do(http.MethodPost, "/kilroys", s.token, body, contentType)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlerSuite) TestUnverifiedPosterCoercedToCommunity() {
	s.sendLocation(s.token, 1, 1)

	body, contentType := pngUpload(s, "secret?", "verified")
	resp := s.do(http.MethodPost, "/kilroys", s.token, body, contentType)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created kilroy.Kilroy
	s.decode(resp, &created)
	s.Equal(circle.Community, created.Circle)
}

func (s *HandlerSuite) TestVerifyUpgradesSession() {
	s.sendLocation(s.token, 1, 1)

	resp := s.do(http.MethodPost, "/verify", s.token, bytes.NewBufferString(`{}`), "application/json")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var vr struct {
		Verified bool   `json:"verified"`
		Token    string `json:"token"`
	}
	s.decode(resp, &vr)
	s.Require().True(vr.Verified)
	s.Require().NotEmpty(vr.Token)

	// verified session can now post to the verified circle
	body, contentType := pngUpload(s, "for verified eyes", "verified")
	resp = s.do(http.MethodPost, "/kilroys", vr.Token, body, contentType)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created kilroy.Kilroy
	s.decode(resp, &created)
	s.Equal(circle.Verified, created.Circle)

	// and only the verified session sees it in the verified filter
	resp = s.do(http.MethodGet, "/kilroys?circle=verified", vr.Token, nil, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var listed []kilroy.Kilroy
	s.decode(resp, &listed)
	s.Require().Len(listed, 1)
	s.Equal("for verified eyes", listed[0].Caption)

	// the unverified token's verified filter is coerced to community
	resp = s.do(http.MethodGet, "/kilroys?circle=verified", s.token, nil, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &listed)
	s.Empty(listed)
}

func (s *HandlerSuite) TestRejectsNonImageUpload() {
	s.sendLocation(s.token, 1, 1)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="notes.txt"`)
	h.Set("Content-Type", "text/plain")
	part, err := w.CreatePart(h)
	s.Require().NoError(err)
	_, _ = part.Write([]byte("not pixels"))
	s.Require().NoError(w.Close())

	resp := s.do(http.MethodPost, "/kilroys", s.token, &body, w.FormDataContentType())
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlerSuite) TestPlaceIsStickyAcrossLocationUpdates() {
	first := s.sendLocation(s.token, 51.5074, -0.1278)
	second := s.sendLocation(s.token, 40.7128, -74.0060)
	s.Equal(first.PlaceID, second.PlaceID)
}
