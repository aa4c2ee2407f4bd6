package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/orders"
)

// setupEnv points the CLI at a temp sqlite file and a fake order service
func setupEnv(t *testing.T, status int, body gin.H) *[]domain.Order {
	gin.SetMode(gin.TestMode)

	var received []domain.Order
	backend := gin.New()
	backend.POST(orders.CreateOrderPath, func(c *gin.Context) {
		var order domain.Order
		assert.NoError(t, c.ShouldBindJSON(&order))
		received = append(received, order)
		c.JSON(status, body)
	})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ORDER_API_URL", srv.URL)
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "storefront.db"))

	return &received
}

func run(t *testing.T, args ...string) (string, error) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProductsCommand(t *testing.T) {
	setupEnv(t, http.StatusOK, gin.H{"success": true, "orderNumber": "ORD-1"})

	out, err := run(t, "products")
	require.NoError(t, err)
	assert.Contains(t, out, "espresso")
	assert.Contains(t, out, "Rp. 18.000")

	out, err = run(t, "products", "--format", "json")
	require.NoError(t, err)
	var products []domain.Product
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	assert.Len(t, products, 5)
}

func TestInvalidFormat(t *testing.T) {
	setupEnv(t, http.StatusOK, gin.H{"success": true, "orderNumber": "ORD-1"})

	_, err := run(t, "products", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestCartCommands_PersistBetweenRuns(t *testing.T) {
	setupEnv(t, http.StatusOK, gin.H{"success": true, "orderNumber": "ORD-1"})

	out, err := run(t, "cart", "add", "espresso", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Espresso has been added to your cart")

	_, err = run(t, "cart", "add", "croissant")
	require.NoError(t, err)

	out, err = run(t, "cart", "show", "--format", "json")
	require.NoError(t, err)
	var view cartView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, int64(58000), view.Total)

	_, err = run(t, "cart", "update", "espresso", "0")
	require.NoError(t, err)
	_, err = run(t, "cart", "remove", "croissant")
	require.NoError(t, err)

	out, err = run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")
}

func TestCartCommands_SessionsAreSeparate(t *testing.T) {
	setupEnv(t, http.StatusOK, gin.H{"success": true, "orderNumber": "ORD-1"})

	_, err := run(t, "cart", "add", "espresso", "--session", "other")
	require.NoError(t, err)

	out, err := run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")
}

func TestCartAdd_Errors(t *testing.T) {
	setupEnv(t, http.StatusOK, gin.H{"success": true, "orderNumber": "ORD-1"})

	_, err := run(t, "cart", "add", "unknown")
	assert.ErrorContains(t, err, "product not found")

	_, err = run(t, "cart", "add", "espresso", "two")
	assert.ErrorContains(t, err, "invalid quantity")

	_, err = run(t, "cart", "add", "espresso", "0")
	assert.ErrorContains(t, err, "quantity must be between 1 and 99")
}

func TestCheckoutCommand(t *testing.T) {
	received := setupEnv(t, http.StatusOK, gin.H{"success": true, "orderNumber": "ORD-7"})

	_, err := run(t, "cart", "add", "cappuccino")
	require.NoError(t, err)

	out, err := run(t, "checkout",
		"--name", "Budi",
		"--email", "budi@example.com",
		"--phone", "0812",
		"--address", "Jl. Kopi 1",
		"--payment", "gopay",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "No. Pesanan: ORD-7")
	assert.Contains(t, out, "Total: Rp. 43.000")
	assert.Contains(t, out, "Metode Pembayaran: GoPay")

	require.Len(t, *received, 1)
	assert.Equal(t, int64(43000), (*received)[0].Total)

	out, err = run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")
}

func TestCheckoutCommand_MissingFields(t *testing.T) {
	received := setupEnv(t, http.StatusOK, gin.H{"success": true, "orderNumber": "ORD-1"})

	_, err := run(t, "cart", "add", "espresso")
	require.NoError(t, err)

	_, err = run(t, "checkout", "--name", "Budi")
	assert.ErrorContains(t, err, "Please fill in all fields")
	assert.Empty(t, *received)
}

func TestCheckoutCommand_Rejected(t *testing.T) {
	setupEnv(t, http.StatusOK, gin.H{"success": false, "error": "Kitchen closed"})

	_, err := run(t, "cart", "add", "espresso")
	require.NoError(t, err)

	_, err = run(t, "checkout", "--name", "Budi", "--email", "b@x.id", "--phone", "1", "--address", "a")
	assert.EqualError(t, err, "Kitchen closed")

	// cart kept for a retry
	out, err := run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "espresso")
}
