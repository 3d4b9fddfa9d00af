package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"workforce-ops-api-server/config"
	"workforce-ops-api-server/internal/api/routes"
	"workforce-ops-api-server/internal/auth"
	"workforce-ops-api-server/internal/logger"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/sequence"
	"workforce-ops-api-server/internal/services"
	"workforce-ops-api-server/internal/socket"
	"workforce-ops-api-server/internal/stats"
	"workforce-ops-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAPIServer dựng server thật với store trong bộ nhớ, auth bật.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	tokens, err := auth.NewManager("client-e2e-secret", "1h")
	require.NoError(t, err)

	briefings := store.NewMemory[models.StaffBriefing]()
	trainings := store.NewMemory[models.TrainingSession]()
	invoices := store.NewMemory[models.Invoice]("invoiceNumber")
	hub := socket.NewHub(log)
	svc := routes.Services{
		Inventory:   services.NewInventoryService(store.NewMemory[models.InventoryItem]("sku"), log),
		Shifts:      services.NewShiftService(store.NewMemory[models.Shift](), log),
		Briefings:   services.NewBriefingService(briefings, sequence.CountBased{Prefix: services.BriefingPrefix, Source: briefings}, services.DisabledAssets{}, log),
		Trainings:   services.NewTrainingService(trainings, sequence.CountBased{Prefix: services.TrainingPrefix, Source: trainings}, services.DisabledAssets{}, log),
		Machines:    services.NewMachineService(store.NewMemory[models.Machine]("machineCode"), log),
		Invoices:    services.NewInvoiceService(invoices, sequence.CountBased{Prefix: services.InvoicePrefix, Source: invoices}, log),
		Payments:    services.NewPaymentService(store.NewMemory[models.Payment](), log),
		Expenses:    services.NewExpenseService(store.NewMemory[models.Expense](), log),
		Roster:      services.NewRosterService(store.NewMemory[models.RosterEntry](), log),
		Supervisors: services.NewSupervisorService(store.NewMemory[models.Supervisor]("email"), log),
		Users:       services.NewUserService(store.NewMemory[models.User]("email"), tokens, log),
		Alerts:      services.NewAlertService(store.NewMemory[models.Alert](), hub, log),
	}
	cfg := config.Config{
		Server: config.ServerConfig{Env: "development"},
		Auth:   config.AuthConfig{Enabled: true},
		Upload: config.UploadConfig{MaxFileSize: 1 << 20},
	}
	srv := httptest.NewServer(routes.SetupRouter(cfg, svc, tokens, hub, log))
	t.Cleanup(srv.Close)
	return srv
}

func loggedIn(t *testing.T, baseURL string) *Client {
	t.Helper()
	ctx := context.Background()
	c := New(baseURL)
	_, err := c.Users.Register(ctx, "Lan", "lan@ops.local", "secret1")
	require.NoError(t, err)
	s, err := c.Users.Login(ctx, "lan@ops.local", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, s.Token)
	return c
}

func TestClientAgainstServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()

	anon := New(srv.URL + "/api/v1")
	_, err := anon.Machines.List(ctx, Filter{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	c := loggedIn(t, srv.URL+"/api/v1")
	me, err := c.Users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "lan@ops.local", me.Email)

	m, err := c.Machines.Create(ctx, map[string]string{"machineCode": "fry-1", "name": "Fryer", "department": "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "FRY-1", m.MachineCode)

	_, err = c.Machines.Create(ctx, map[string]string{"machineCode": "FRY-1", "name": "Dup"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Machine with this code already exists", apiErr.Message)

	m, err = c.Machines.UpdateStatus(ctx, m.ID.Hex(), string(models.MachineMaintenance))
	require.NoError(t, err)
	assert.Equal(t, models.MachineMaintenance, m.Status)

	page, err := c.Machines.List(ctx, Filter{Department: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)

	require.NoError(t, c.Users.Logout())
	_, err = c.Users.Me(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClientBriefingMultipart(t *testing.T) {
	srv := newAPIServer(t)
	c := loggedIn(t, srv.URL+"/api/v1")
	ctx := context.Background()

	b, err := c.Briefings.CreateWithFiles(ctx, map[string]any{
		"conductedBy": "Lan",
		"site":        "Riverside",
		"topics":      []string{"fire drill"},
		"actionItems": []map[string]string{{"description": "Check extinguishers"}},
	}, []Upload{{Name: "plan.pdf", Data: []byte("%PDF-1.4")}})
	require.NoError(t, err)
	assert.Equal(t, "BRI001", b.BriefingID)
	require.Len(t, b.ActionItems, 1)

	b, err = c.Briefings.UpdateActionItemStatus(ctx, b.ID.Hex(), 0, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", string(b.ActionItems[0].Status))

	_, err = c.Briefings.CreateWithFiles(ctx, map[string]any{"conductedBy": "Lan", "site": "Riverside"},
		[]Upload{{Name: "tool.sh", Data: []byte("#!/bin/sh")}})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestInventoryStatsMatchLocalReduction(t *testing.T) {
	srv := newAPIServer(t)
	c := loggedIn(t, srv.URL+"/api/v1")
	ctx := context.Background()

	for _, in := range []map[string]any{
		{"sku": "oil-1", "name": "Oil", "department": "kitchen", "category": "pantry", "quantity": 4, "price": 12.5, "reorderLevel": 5},
		{"sku": "towel-1", "name": "Towel", "department": "housekeeping", "quantity": 40, "price": 2},
	} {
		_, err := c.Inventory.Create(ctx, in)
		require.NoError(t, err)
	}

	remote, err := c.Inventory.Stats(ctx)
	require.NoError(t, err)
	items, err := c.Inventory.All(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, stats.InventoryStats(items), remote)
	assert.Equal(t, 1, remote.LowStockItems)
}
