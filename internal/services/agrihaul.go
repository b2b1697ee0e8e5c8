package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// BackendAPI is the AgriHaul REST surface the conversation engine drives.
// Implemented by AgriHaulClient; stubbed in tests.
type BackendAPI interface {
	CreateJob(req *CreateJobRequest) (string, error)
	ListOpenJobs(limit int) ([]Job, error)
	AcceptJob(jobID, carrierID string) error
	GetJob(jobID string) (*Job, error)
	SubmitRating(req *RatingRequest) error
}

// Envelope is the AgriHaul API's uniform response wrapper
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Farmer carries the job poster's aggregate rating when the API includes it
type Farmer struct {
	RatingOverall *float64 `json:"rating_overall"`
}

// Job is a shipment record as returned by the AgriHaul API
type Job struct {
	ID             string   `json:"id"`
	Crop           string   `json:"crop"`
	LoadSize       *float64 `json:"load_size"`      // tons
	PayoutDollars  *float64 `json:"payout_dollars"`
	PickupAddress  string   `json:"pickup_address"`
	DropoffAddress string   `json:"dropoff_address"`
	Status         string   `json:"status"` // open | accepted | in_transit | delivered | paid | cancelled
	ETA            string   `json:"eta"`
	FarmerID       string   `json:"farmer_id"`
	FarmerIDLegacy string   `json:"farmerId,omitempty"` // older API responses
	Farmer         *Farmer  `json:"farmer,omitempty"`
}

// RateeID returns the farmer id to rate, tolerating both field spellings
func (j *Job) RateeID() string {
	if j.FarmerID != "" {
		return j.FarmerID
	}
	return j.FarmerIDLegacy
}

// CreateJobRequest is the POST /jobs payload
type CreateJobRequest struct {
	Crop            string   `json:"crop"`
	LoadSize        float64  `json:"load_size"` // tons
	PayoutDollars   int      `json:"payout_dollars"`
	PickupAddress   string   `json:"pickup_address"`
	DropoffAddress  string   `json:"dropoff_address"`
	EquipmentNeeded []string `json:"equipment_needed"`
	IsPerishable    bool     `json:"is_perishable"`
	Notes           string   `json:"notes"`
}

// RatingRequest is the POST /ratings payload. All six categories are required
// by the API; the chatbot fills them uniformly from a single 1-5 answer.
type RatingRequest struct {
	JobID         string `json:"job_id"`
	RateeID       string `json:"ratee_id"`
	OnTime        int    `json:"on_time"`
	Communication int    `json:"communication"`
	Accuracy      int    `json:"accuracy"`
	Compliance    int    `json:"compliance"`
	Condition     int    `json:"condition"`
	Resolution    int    `json:"resolution"`
	Comment       string `json:"comment"`
}

// AgriHaulClient calls the separately hosted AgriHaul REST API
type AgriHaulClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewAgriHaulClient creates a client for the given API base URL and key
func NewAgriHaulClient(baseURL, apiKey string) *AgriHaulClient {
	return &AgriHaulClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewAgriHaulClientFromEnv reads API_BASE_URL and AGRIHAUL_API_KEY
func NewAgriHaulClientFromEnv() *AgriHaulClient {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}
	return NewAgriHaulClient(baseURL, os.Getenv("AGRIHAUL_API_KEY"))
}

// doJSON performs a request and unwraps the response envelope. A non-2xx
// status or a non-success envelope is returned as an error.
func (a *AgriHaulClient) doJSON(method, path string, query url.Values, payload interface{}) (*Envelope, error) {
	fullURL := a.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		if env.Error != "" {
			return nil, fmt.Errorf("api error: %s", env.Error)
		}
		return nil, fmt.Errorf("api error: HTTP %d", resp.StatusCode)
	}

	return &env, nil
}

// CreateJob posts a new load and returns the job id. The API has returned the
// id both as data.id and data.job.id across versions; accept either.
func (a *AgriHaulClient) CreateJob(req *CreateJobRequest) (string, error) {
	env, err := a.doJSON(http.MethodPost, "/api/v1/jobs", nil, req)
	if err != nil {
		return "", err
	}

	var data struct {
		ID  string `json:"id"`
		Job struct {
			ID string `json:"id"`
		} `json:"job"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return "", fmt.Errorf("failed to decode job id: %w", err)
		}
	}

	jobID := data.ID
	if jobID == "" {
		jobID = data.Job.ID
	}
	if jobID == "" {
		jobID = "JOB_UNKNOWN"
	}
	return jobID, nil
}

// ListOpenJobs fetches open jobs; location filtering happens client-side
func (a *AgriHaulClient) ListOpenJobs(limit int) ([]Job, error) {
	query := url.Values{}
	query.Set("status", "open")
	query.Set("limit", fmt.Sprintf("%d", limit))

	env, err := a.doJSON(http.MethodGet, "/api/v1/jobs", query, nil)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &jobs); err != nil {
			return nil, fmt.Errorf("failed to decode jobs: %w", err)
		}
	}
	return jobs, nil
}

// AcceptJob applies the linked carrier to a job
func (a *AgriHaulClient) AcceptJob(jobID, carrierID string) error {
	payload := map[string]string{"carrier_id": carrierID}
	_, err := a.doJSON(http.MethodPost, "/api/v1/jobs/"+url.PathEscape(jobID)+"/accept", nil, payload)
	return err
}

// GetJob fetches one job by id
func (a *AgriHaulClient) GetJob(jobID string) (*Job, error) {
	env, err := a.doJSON(http.MethodGet, "/api/v1/jobs/"+url.PathEscape(jobID), nil, nil)
	if err != nil {
		return nil, err
	}

	var job Job
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &job); err != nil {
			return nil, fmt.Errorf("failed to decode job: %w", err)
		}
	}
	return &job, nil
}

// SubmitRating posts a six-category rating for a completed job
func (a *AgriHaulClient) SubmitRating(req *RatingRequest) error {
	_, err := a.doJSON(http.MethodPost, "/api/v1/ratings", nil, req)
	return err
}
