package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/caffeinecoffee/storefront/internal/config"
	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newOrderServer starts a fake order service answering with handler
func newOrderServer(t *testing.T, handler gin.HandlerFunc) (*httptest.Server, *int) {
	calls := 0
	router := gin.New()
	router.POST(CreateOrderPath, func(c *gin.Context) {
		calls++
		handler(c)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testOrder() domain.Order {
	items := []domain.CartItem{
		{ID: "a", Name: "Espresso", Price: 20000, Quantity: 2},
		{ID: "b", Name: "Croissant", Price: 10000, Quantity: 1},
	}
	return domain.Order{
		CustomerName:  "Budi",
		Email:         "budi@example.com",
		Phone:         "0812",
		Address:       "Jl. Kopi 1",
		Items:         items,
		Subtotal:      50000,
		Shipping:      domain.ShippingFee,
		Total:         65000,
		PaymentMethod: domain.PaymentMethodOVO,
	}
}

func newTestClient(t *testing.T, url string) *Client {
	return NewClient(config.OrdersConfig{BaseURL: url + "/", Timeout: time.Second}, zaptest.NewLogger(t))
}

func TestCreateOrder_Success(t *testing.T) {
	var got domain.Order
	var idemKey string
	srv, calls := newOrderServer(t, func(c *gin.Context) {
		idemKey = c.GetHeader("Idempotency-Key")
		require.NoError(t, c.ShouldBindJSON(&got))
		c.JSON(http.StatusCreated, gin.H{"success": true, "orderNumber": "ORD-1"})
	})

	orderNumber, err := newTestClient(t, srv.URL).CreateOrder(context.Background(), testOrder())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", orderNumber)
	assert.Equal(t, 1, *calls)
	assert.NotEmpty(t, idemKey)
	assert.Equal(t, testOrder(), got)
}

func TestCreateOrder_RejectedWithReason(t *testing.T) {
	srv, _ := newOrderServer(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Stok habis"})
	})

	_, err := newTestClient(t, srv.URL).CreateOrder(context.Background(), testOrder())

	var rejected *errors.ErrOrderRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Stok habis", rejected.Error())
}

func TestCreateOrder_RejectedWithoutReason(t *testing.T) {
	srv, _ := newOrderServer(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": false})
	})

	_, err := newTestClient(t, srv.URL).CreateOrder(context.Background(), testOrder())

	var rejected *errors.ErrOrderRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, errors.MsgOrderFailed, rejected.Error())
}

func TestCreateOrder_ErrorStatus(t *testing.T) {
	srv, calls := newOrderServer(t, func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database down"})
	})

	_, err := newTestClient(t, srv.URL).CreateOrder(context.Background(), testOrder())

	var rejected *errors.ErrOrderRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusInternalServerError, rejected.StatusCode)
	assert.Equal(t, "database down", rejected.Reason)
	assert.Equal(t, 1, *calls, "no retries")
}

func TestCreateOrder_ErrorStatusWithoutBody(t *testing.T) {
	srv, _ := newOrderServer(t, func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})

	_, err := newTestClient(t, srv.URL).CreateOrder(context.Background(), testOrder())

	var rejected *errors.ErrOrderRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, errors.MsgOrderFailed, rejected.Error())
}

func TestCreateOrder_MalformedResponse(t *testing.T) {
	srv, _ := newOrderServer(t, func(c *gin.Context) {
		c.String(http.StatusOK, "<html>oops</html>")
	})

	_, err := newTestClient(t, srv.URL).CreateOrder(context.Background(), testOrder())

	var transport *errors.ErrTransport
	require.ErrorAs(t, err, &transport)
	assert.ErrorContains(t, err, "failed to unmarshal response")
}

func TestCreateOrder_MissingOrderNumber(t *testing.T) {
	srv, _ := newOrderServer(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	_, err := newTestClient(t, srv.URL).CreateOrder(context.Background(), testOrder())

	var transport *errors.ErrTransport
	require.ErrorAs(t, err, &transport)
}

func TestCreateOrder_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).CreateOrder(context.Background(), testOrder())

	var transport *errors.ErrTransport
	require.ErrorAs(t, err, &transport)
}

func TestCreateOrder_Timeout(t *testing.T) {
	srv, _ := newOrderServer(t, func(c *gin.Context) {
		time.Sleep(200 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"success": true, "orderNumber": "late"})
	})

	client := NewClient(config.OrdersConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, zaptest.NewLogger(t))
	_, err := client.CreateOrder(context.Background(), testOrder())

	var transport *errors.ErrTransport
	require.ErrorAs(t, err, &transport)
}
