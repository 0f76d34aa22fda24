package motopress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/services"
)

// ErrNotConfigured means the API key/secret pair is missing. Purely
// local operations must keep working; only calls that actually reach
// the external system fail with this.
var ErrNotConfigured = errors.New("motopress: api credentials are not configured")

// APIError is a non-2xx response from the booking API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("motopress: status=%d body=%s", e.StatusCode, e.Body)
}

// Client talks to the MotoPress hotel booking REST API using a static
// basic-auth key/secret pair. It implements services.BookingSource and
// services.BookingWriter.
type Client struct {
	BaseURL string
	Key     string
	Secret  string
	HTTP    *http.Client
}

func New(baseURL, key, secret string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		Secret:  secret,
		HTTP: &http.Client{
			Timeout: 25 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

func (c *Client) checkConfig() error {
	if c.BaseURL == "" || c.Key == "" || c.Secret == "" {
		return ErrNotConfigured
	}
	return nil
}

type bookingResponse struct {
	ID           json.Number `json:"id"`
	Status       string      `json:"status"`
	CheckInDate  string      `json:"check_in_date"`  // YYYY-MM-DD
	CheckOutDate string      `json:"check_out_date"` // YYYY-MM-DD
	TotalPrice   float64     `json:"total_price"`
	Customer     struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"customer"`
	ReservedAccommodations []struct {
		Accommodation     json.Number `json:"accommodation"`
		AccommodationType json.Number `json:"accommodation_type"`
		Adults            int         `json:"adults"`
		Children          int         `json:"children"`
	} `json:"reserved_accommodations"`
	Note string `json:"note"`
}

// FetchBookings returns the current external booking list. One bounded
// page of 100; the API is not paginated further here.
func (c *Client) FetchBookings(ctx context.Context) ([]services.ExternalBooking, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}

	u, _ := url.Parse(c.BaseURL + "/bookings")
	q := u.Query()
	q.Set("per_page", "100")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.Key, c.Secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("motopress: fetch bookings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var api []bookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("motopress: decode bookings: %w", err)
	}

	out := make([]services.ExternalBooking, 0, len(api))
	for _, b := range api {
		checkIn, err := time.Parse("2006-01-02", b.CheckInDate)
		if err != nil {
			// skip malformed rows rather than failing the whole sync
			continue
		}
		checkOut, err := time.Parse("2006-01-02", b.CheckOutDate)
		if err != nil {
			continue
		}

		var accommodationType string
		var adults, children int
		if len(b.ReservedAccommodations) > 0 {
			ra := b.ReservedAccommodations[0]
			accommodationType = ra.AccommodationType.String()
			adults = ra.Adults
			children = ra.Children
		}

		out = append(out, services.ExternalBooking{
			ID:                  b.ID.String(),
			Status:              b.Status,
			CheckIn:             checkIn,
			CheckOut:            checkOut,
			TotalAmount:         toMinorUnits(b.TotalPrice),
			GuestName:           strings.TrimSpace(b.Customer.FirstName + " " + b.Customer.LastName),
			GuestEmail:          b.Customer.Email,
			GuestPhone:          b.Customer.Phone,
			AccommodationTypeID: accommodationType,
			Adults:              adults,
			Children:            children,
			Note:                b.Note,
		})
	}
	return out, nil
}

type createBookingRequest struct {
	Status                 string                  `json:"status"`
	CheckInDate            string                  `json:"check_in_date"`
	CheckOutDate           string                  `json:"check_out_date"`
	Customer               createBookingCustomer   `json:"customer"`
	ReservedAccommodations []reservedAccommodation `json:"reserved_accommodations"`
	Note                   string                  `json:"note,omitempty"`
}

type createBookingCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type reservedAccommodation struct {
	AccommodationType string `json:"accommodation_type"`
	Adults            int    `json:"adults"`
	Children          int    `json:"children"`
}

// CreateBooking pushes a locally created reservation to the external
// system and returns the external id it was accepted under.
func (c *Client) CreateBooking(ctx context.Context, req services.BookingRequest) (string, error) {
	if err := c.checkConfig(); err != nil {
		return "", err
	}

	first, last := splitName(req.GuestName)
	payload := createBookingRequest{
		Status:       "confirmed",
		CheckInDate:  req.CheckIn.Format("2006-01-02"),
		CheckOutDate: req.CheckOut.Format("2006-01-02"),
		Customer: createBookingCustomer{
			FirstName: first,
			LastName:  last,
			Email:     req.GuestEmail,
			Phone:     req.GuestPhone,
		},
		ReservedAccommodations: []reservedAccommodation{{
			AccommodationType: req.AccommodationExternalID,
			Adults:            req.Adults,
			Children:          req.Children,
		}},
		Note: req.Note,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("motopress: marshal booking: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/bookings", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.SetBasicAuth(c.Key, c.Secret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("motopress: create booking: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var created struct {
		ID json.Number `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("motopress: decode create response: %w", err)
	}
	if created.ID.String() == "" {
		return "", fmt.Errorf("motopress: create response carried no booking id")
	}
	return created.ID.String(), nil
}

// CancelBooking cancels an external booking by its id.
func (c *Client) CancelBooking(ctx context.Context, externalID string) error {
	if err := c.checkConfig(); err != nil {
		return err
	}
	if externalID == "" {
		return fmt.Errorf("motopress: external id is required")
	}

	u := fmt.Sprintf("%s/bookings/%s/cancel", c.BaseURL, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.Key, c.Secret)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("motopress: cancel booking %s: %w", externalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return nil
}

// toMinorUnits converts the API's decimal price to integer minor
// currency units.
func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	idx := strings.LastIndex(full, " ")
	if idx < 0 {
		return full, ""
	}
	return full[:idx], full[idx+1:]
}
