package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/service"
	"nearbyserve/storage/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	log := logger.New("test", "error")
	store := memory.New(log)
	t.Cleanup(store.Close)

	svc := service.New(store, log, 24*time.Hour)
	return New(svc, log).router()
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAPI_RequestLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/recipients", gin.H{
		"name":  "Test Group",
		"count": 3,
		"needs": []string{"Rice"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rec := decode[models.Recipient](t, w)

	w = do(t, r, http.MethodPost, "/api/requests", gin.H{
		"recipient_id": rec.ID,
		"donor_name":   "Rahul Sharma",
		"items":        "5kg Rice",
		"service_fee":  40,
		"mode":         "volunteer",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	req := decode[models.DeliveryRequest](t, w)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Len(t, req.PickupOtp, 4)

	accept := func(volunteer string) *httptest.ResponseRecorder {
		return do(t, r, http.MethodPost, fmt.Sprintf("/api/requests/%s/accept", req.ID), gin.H{
			"volunteer_id":   volunteer,
			"volunteer_name": "Volunteer " + volunteer,
		})
	}

	w = accept("vol_a")
	require.Equal(t, http.StatusOK, w.Code)

	// Losing a race for an already-accepted request is a conflict.
	w = accept("vol_b")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/requests/%s/pickup", req.ID), gin.H{"otp": "0000"})
	if req.PickupOtp == "0000" {
		t.Skip("improbable otp collision with the deliberately wrong code")
	}
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/requests/%s/pickup", req.ID), gin.H{"otp": req.PickupOtp})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/requests/%s/proof", req.ID), gin.H{
		"proof_url":  "https://proof/1.jpg",
		"proof_type": "image",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/requests/payouts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue := decode[[]models.DeliveryRequest](t, w)
	require.Len(t, queue, 1)

	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/requests/%s/payout", req.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	paid := decode[models.DeliveryRequest](t, w)
	assert.Equal(t, models.StatusPaid, paid.Status)
	assert.Equal(t, "vol_a", paid.VolunteerID)
}

func TestAPI_ErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/requests/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/recipients", gin.H{
		"name":  "Group",
		"count": 0,
		"needs": []string{"Rice"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/volunteers", gin.H{
		"name":  "Vikram",
		"email": "vikram@x.org",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/api/volunteers", gin.H{
		"name":  "Copycat",
		"email": "vikram@x.org",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPI_DonorHistory(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/recipients", gin.H{
		"name":  "Test Group",
		"count": 3,
		"needs": []string{"Rice"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rec := decode[models.Recipient](t, w)

	w = do(t, r, http.MethodPost, "/api/requests", gin.H{
		"recipient_id": rec.ID,
		"donor_name":   "Rahul Sharma",
		"items":        "2kg Bananas",
		"mode":         "self",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/api/donors/Rahul%20Sharma/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[service.DonorHistory](t, w)
	assert.Len(t, history.Active, 1)
	assert.Empty(t, history.Past)
}
