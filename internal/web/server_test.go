package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/models"
	"github.com/hemantobora/ec2-estimator/internal/pricing"
)

type fakeEstimator struct {
	mu      sync.Mutex
	est     *models.CostEstimate
	err     error
	release chan struct{}
	calls   []models.Configuration
}

func (f *fakeEstimator) Estimate(ctx context.Context, cfg models.Configuration) (*models.CostEstimate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cfg)
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return f.est, f.err
}

func (f *fakeEstimator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func sampleEstimate() *models.CostEstimate {
	return &models.CostEstimate{
		InstanceType: "t3.medium", VCPU: 2, Memory: 4,
		OperatingSystem: "Ubuntu Server 22.04 LTS", EBSVolumeType: "gp3", EBSVolumeSizeGB: 100,
		InstanceCostUSD: 30.37, EBSCostUSD: 8, TotalMonthlyCostUSD: 38.37,
	}
}

func newTestServer(t *testing.T, est *fakeEstimator) (*httptest.Server, *controller.Controller) {
	t.Helper()
	ctrl := controller.New(est)
	ts := httptest.NewServer(New(ctrl, est).Handler())
	t.Cleanup(ts.Close)
	return ts, ctrl
}

func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := noRedirect().PostForm(ts.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func waitForState(t *testing.T, ctrl *controller.Controller, want controller.RequestState) {
	t.Helper()
	require.Eventually(t, func() bool {
		return ctrl.Snapshot().State == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPageShowsIdleHint(t *testing.T) {
	ts, _ := newTestServer(t, &fakeEstimator{est: sampleEstimate()})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Select your configuration and click &#34;Get Estimate&#34; to see the details.")
	assert.Contains(t, html, `<option value="t2.nano" selected>t2.nano</option>`)
	assert.NotContains(t, html, "Consulting the AI cloud")
}

func TestSubmitRunsEstimateAndRedirects(t *testing.T) {
	est := &fakeEstimator{est: sampleEstimate()}
	ts, ctrl := newTestServer(t, est)

	resp := postForm(t, ts, "/estimate", url.Values{
		"instanceType":    {"t3.medium"},
		"operatingSystem": {"Ubuntu Server 22.04 LTS"},
		"ebsVolumeType":   {"gp3"},
		"ebsVolumeSizeGB": {"0"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	waitForState(t, ctrl, controller.Succeeded)
	require.Equal(t, 1, est.callCount())
	assert.Equal(t, 1, est.calls[0].EBSVolumeSizeGB)

	page, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer page.Body.Close()
	html := body(t, page)
	assert.Contains(t, html, "$38.37")
	assert.Contains(t, html, "$30.37")
}

func TestEditsWhileLoadingConflict(t *testing.T) {
	est := &fakeEstimator{est: sampleEstimate(), release: make(chan struct{})}
	ts, ctrl := newTestServer(t, est)

	postForm(t, ts, "/estimate", url.Values{"instanceType": {"t3.micro"}})
	waitForState(t, ctrl, controller.Loading)

	resp := postForm(t, ts, "/configuration", url.Values{"instanceType": {"m5.large"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	page, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	html := body(t, page)
	page.Body.Close()
	assert.Contains(t, html, "Consulting the AI cloud...")
	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.Contains(t, html, "disabled")

	close(est.release)
	waitForState(t, ctrl, controller.Succeeded)
	assert.Equal(t, "t3.micro", ctrl.Snapshot().Configuration.InstanceType)
	assert.Equal(t, 1, est.callCount())
}

func TestConfigurationRejectsUnknownValues(t *testing.T) {
	ts, ctrl := newTestServer(t, &fakeEstimator{est: sampleEstimate()})

	resp := postForm(t, ts, "/configuration", url.Values{"operatingSystem": {"TempleOS"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Amazon Linux 2023", ctrl.Snapshot().Configuration.OperatingSystem)
	assert.Equal(t, controller.Idle, ctrl.Snapshot().State)
}

func TestStateEndpoint(t *testing.T) {
	est := &fakeEstimator{err: &models.EstimationError{Kind: models.KindEmptyResponse, Provider: "fake"}}
	ts, ctrl := newTestServer(t, est)

	postForm(t, ts, "/estimate", url.Values{"instanceType": {"c5.large"}})
	waitForState(t, ctrl, controller.Failed)

	resp, err := http.Get(ts.URL + "/api/v1/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got struct {
		State     string `json:"state"`
		Error     string `json:"error"`
		ErrorKind string `json:"errorKind"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "failed", got.State)
	assert.Equal(t, "The AI returned an empty response. Please try again.", got.Error)
	assert.Equal(t, "EmptyResponse", got.ErrorKind)
}

func TestAPIEstimate(t *testing.T) {
	ts, _ := newTestServer(t, &fakeEstimator{est: sampleEstimate()})

	resp, err := http.Post(ts.URL+"/api/v1/estimate", "application/json",
		strings.NewReader(`{"instanceType":"t3.medium","operatingSystem":"Ubuntu Server 22.04 LTS"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.CostEstimate
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, *sampleEstimate(), got)
}

func TestAPIEstimateErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		kind   string
	}{
		{"bad json", `{`, nil, http.StatusBadRequest, "InvalidInput"},
		{"no instance type", `{"instanceType":""}`, nil, http.StatusBadRequest, "InvalidInput"},
		{"unknown os", `{"instanceType":"t3.micro","operatingSystem":"BeOS"}`, nil, http.StatusBadRequest, "InvalidInput"},
		{"missing key", `{"instanceType":"t3.micro"}`,
			&models.EstimationError{Kind: models.KindMissingCredential, Provider: "fake"}, http.StatusServiceUnavailable, "MissingCredential"},
		{"malformed", `{"instanceType":"t3.micro"}`,
			&models.EstimationError{Kind: models.KindMalformedJSON, Provider: "fake"}, http.StatusBadGateway, "MalformedJSON"},
		{"unavailable", `{"instanceType":"t3.micro"}`,
			&models.EstimationError{Kind: models.KindProviderUnavailable, Provider: "fake"}, http.StatusBadGateway, "ProviderUnavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newTestServer(t, &fakeEstimator{est: sampleEstimate(), err: tt.err})

			resp, err := http.Post(ts.URL+"/api/v1/estimate", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var got errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.kind, got.Kind)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestCatalogAndHealth(t *testing.T) {
	ts, _ := newTestServer(t, &fakeEstimator{})

	resp, err := http.Get(ts.URL + "/api/v1/catalog")
	require.NoError(t, err)
	var catalog struct {
		Region        string   `json:"region"`
		InstanceTypes []string `json:"instanceTypes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&catalog))
	resp.Body.Close()
	assert.Equal(t, "us-east-1", catalog.Region)
	assert.Equal(t, models.InstanceTypes, catalog.InstanceTypes)

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsCountOutcomes(t *testing.T) {
	est := &fakeEstimator{est: sampleEstimate()}
	ts, ctrl := newTestServer(t, est)

	postForm(t, ts, "/estimate", url.Values{"instanceType": {"t3.small"}})
	waitForState(t, ctrl, controller.Succeeded)

	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return strings.Contains(body(t, resp), `ec2_estimator_estimates_total{outcome="succeeded"} 1`)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestEmptyInstanceTypeKeepsFormUsable(t *testing.T) {
	est := &fakeEstimator{est: sampleEstimate()}
	ts, ctrl := newTestServer(t, est)

	resp := postForm(t, ts, "/estimate", url.Values{"instanceType": {""}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Select an instance type to get an estimate.")
	assert.Contains(t, html, "<button type=\"submit\">")
	assert.Equal(t, 0, est.callCount())
	assert.Equal(t, controller.Idle, ctrl.Snapshot().State)

	page, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	html = body(t, page)
	page.Body.Close()
	assert.Contains(t, html, `<option value="" selected>`)
	assert.Contains(t, html, "<button type=\"submit\">")

	resp = postForm(t, ts, "/estimate", url.Values{"instanceType": {"t3.micro"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	waitForState(t, ctrl, controller.Succeeded)
	assert.Equal(t, 1, est.callCount())
}

func TestFormAppliesAllFieldsOrNone(t *testing.T) {
	ts, ctrl := newTestServer(t, &fakeEstimator{est: sampleEstimate()})
	before := ctrl.Snapshot().Configuration

	resp := postForm(t, ts, "/configuration", url.Values{
		"instanceType":    {"r5.large"},
		"operatingSystem": {"Windows Server 2022"},
		"ebsVolumeType":   {"floppy"},
		"ebsVolumeSizeGB": {"20"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, before, ctrl.Snapshot().Configuration)
}

type countingPrices struct {
	mu    sync.Mutex
	calls int
}

func (c *countingPrices) Reference(ctx context.Context, cfg models.Configuration) *pricing.Reference {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return &pricing.Reference{EBSVolumeSizeGB: cfg.EBSVolumeSizeGB, Err: errors.New("throttled")}
}

func (c *countingPrices) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestPageLooksUpReferenceOncePerRequest(t *testing.T) {
	est := &fakeEstimator{est: sampleEstimate()}
	prices := &countingPrices{}
	ctrl := controller.New(est)
	ts := httptest.NewServer(New(ctrl, est, WithPricing(prices)).Handler())
	t.Cleanup(ts.Close)

	postForm(t, ts, "/estimate", url.Values{"instanceType": {"t3.medium"}})
	waitForState(t, ctrl, controller.Succeeded)

	for i := 0; i < 3; i++ {
		page, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		assert.Contains(t, body(t, page), "AWS list price reference unavailable.")
		page.Body.Close()
	}
	assert.Equal(t, 1, prices.count())

	postForm(t, ts, "/estimate", url.Values{"instanceType": {"t3.large"}})
	require.Eventually(t, func() bool {
		snap := ctrl.Snapshot()
		return snap.State == controller.Succeeded && snap.Configuration.InstanceType == "t3.large"
	}, 2*time.Second, 10*time.Millisecond)

	page, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	page.Body.Close()
	assert.Equal(t, 2, prices.count())
}
