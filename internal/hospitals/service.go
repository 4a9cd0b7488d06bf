package hospitals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Contact is an emergency contact for the nearest A&E to a site postcode.
type Contact struct {
	Postcode     string       `json:"postcode"`
	HospitalName string       `json:"hospitalName"`
	Address      string       `json:"address"`
	Phone        string       `json:"phone"`
	Coordinates  *Coordinates `json:"coordinates"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Service resolves the nearest A&E hospital for a UK postcode. Lookups go
// postcode geocoding → NHS service search → fixed major-hospital fallback;
// any failure degrades to a safe NHS 111 contact rather than an error.
type Service struct {
	http             *http.Client
	cache            *Cache
	nhsAPIKey        string
	postcodesBaseURL string
	nhsBaseURL       string
	logger           *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache attaches a lookup cache.
func WithCache(c *Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithBaseURLs overrides the upstream endpoints, mainly for tests.
func WithBaseURLs(postcodes, nhs string) Option {
	return func(s *Service) {
		s.postcodesBaseURL = postcodes
		s.nhsBaseURL = nhs
	}
}

func NewService(client *http.Client, nhsAPIKey string, logger *slog.Logger, opts ...Option) *Service {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		http:             client,
		nhsAPIKey:        nhsAPIKey,
		postcodesBaseURL: "https://api.postcodes.io",
		nhsBaseURL:       "https://api.nhs.uk",
		logger:           logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindNearestByPostcode never fails: a usable contact always comes back, in
// the worst case the NHS 111 fallback.
func (s *Service) FindNearestByPostcode(ctx context.Context, postcode string) Contact {
	normalized := NormalizePostcode(postcode)

	if s.cache != nil {
		if c, ok := s.cache.Get(ctx, normalized); ok {
			s.logger.Debug("hospitals.cache_hit", "postcode", normalized)
			return c
		}
	}

	contact, err := s.lookup(ctx, normalized)
	if err != nil {
		s.logger.Warn("hospitals.lookup_failed", "postcode", normalized, "error", err)
		return fallbackContact(normalized)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, contact); err != nil {
			// Cache failures never block the response.
			s.logger.Warn("hospitals.cache_put_failed", "postcode", normalized, "error", err)
		}
	}
	return contact
}

// NormalizePostcode upper-cases and strips all whitespace.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}

func fallbackContact(postcode string) Contact {
	return Contact{
		Postcode:     postcode,
		HospitalName: "NHS 111",
		Address:      "Unable to find nearest hospital. Call NHS 111 for assistance.",
		Phone:        "111",
	}
}

func (s *Service) lookup(ctx context.Context, postcode string) (Contact, error) {
	lat, lng, err := s.geocode(ctx, postcode)
	if err != nil {
		return Contact{}, err
	}

	if c, err := s.searchNHS(ctx, postcode, lat, lng); err == nil {
		return c, nil
	} else {
		s.logger.Debug("hospitals.nhs_search_failed", "postcode", postcode, "error", err)
	}

	return nearestMajorHospital(postcode, lat, lng), nil
}

func (s *Service) geocode(ctx context.Context, postcode string) (lat, lng float64, err error) {
	var out struct {
		Result *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"result"`
	}
	u := s.postcodesBaseURL + "/postcodes/" + url.PathEscape(postcode)
	if err := s.getJSON(ctx, u, nil, &out); err != nil {
		return 0, 0, err
	}
	if out.Result == nil {
		return 0, 0, fmt.Errorf("invalid postcode %q", postcode)
	}
	return out.Result.Latitude, out.Result.Longitude, nil
}

func (s *Service) searchNHS(ctx context.Context, postcode string, lat, lng float64) (Contact, error) {
	q := url.Values{}
	q.Set("api-version", "1")
	q.Set("search", "accident and emergency")
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lng))
	q.Set("maxDistanceMiles", "10")

	key := s.nhsAPIKey
	if key == "" {
		key = "demo"
	}

	var out struct {
		Value []struct {
			OrganisationName string `json:"OrganisationName"`
			Address1         string `json:"Address1"`
			Phone            string `json:"Phone"`
		} `json:"value"`
	}
	u := s.nhsBaseURL + "/service-search/search?" + q.Encode()
	if err := s.getJSON(ctx, u, map[string]string{"subscription-key": key}, &out); err != nil {
		return Contact{}, err
	}
	if len(out.Value) == 0 {
		return Contact{}, fmt.Errorf("no A&E services within range")
	}

	nearest := out.Value[0]
	phone := nearest.Phone
	if phone == "" {
		phone = "111"
	}
	return Contact{
		Postcode:     postcode,
		HospitalName: nearest.OrganisationName,
		Address:      nearest.Address1,
		Phone:        phone,
		Coordinates:  &Coordinates{Lat: lat, Lng: lng},
	}, nil
}

func (s *Service) getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
	return json.Unmarshal(body, out)
}

// majorHospitals backs the last-resort search when the NHS API is
// unavailable.
var majorHospitals = []struct {
	name    string
	lat     float64
	lng     float64
	address string
	phone   string
}{
	{"St George's Hospital", 51.4278, -0.1733, "Blackshaw Road, Tooting, London, SW17 0QT", "020 8672 1255"},
	{"Royal London Hospital", 51.5176, -0.0597, "Whitechapel Road, London, E1 1FR", "020 3594 0500"},
	{"King's College Hospital", 51.4692, -0.0931, "Denmark Hill, London, SE5 9RS", "020 3299 9000"},
	{"Royal Free Hospital", 51.5525, -0.1641, "Pond Street, Hampstead, London, NW3 2QG", "020 7794 0500"},
}

func nearestMajorHospital(postcode string, lat, lng float64) Contact {
	nearest := majorHospitals[0]
	minDistance := haversineKm(lat, lng, nearest.lat, nearest.lng)
	for _, h := range majorHospitals[1:] {
		if d := haversineKm(lat, lng, h.lat, h.lng); d < minDistance {
			minDistance = d
			nearest = h
		}
	}
	return Contact{
		Postcode:     postcode,
		HospitalName: nearest.name,
		Address:      nearest.address,
		Phone:        nearest.phone,
		Coordinates:  &Coordinates{Lat: lat, Lng: lng},
	}
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
