package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/souravsatyam/gymapp/internal/logger"
)

var ErrCheckoutTimeout = errors.New("checkout was not completed in time")

// Result is what the gateway reports back through the redirect.
type Result struct {
	PaymentID string
	Status    string
}

func (r Result) Succeeded() bool {
	return r.Status == "success" || r.Status == "paid"
}

// Listener runs a short-lived localhost server that catches the payment
// gateway's redirect after the user finishes checkout in the browser.
type Listener struct {
	port string
}

func NewListener(port string) *Listener {
	return &Listener{port: port}
}

// CallbackURL is the redirect target handed to the gateway.
func (l *Listener) CallbackURL() string {
	return fmt.Sprintf("http://localhost:%s/payment/callback", l.port)
}

// CheckoutURL builds the gateway checkout page for an order, pointing its
// redirect at this listener.
func (l *Listener) CheckoutURL(gatewayBase, orderID string) string {
	query := url.Values{}
	query.Set("order_id", orderID)
	query.Set("redirect", l.CallbackURL())
	return gatewayBase + "?" + query.Encode()
}

// Await serves the callback endpoint until the gateway redirects or ctx
// expires, then shuts the server down.
func (l *Listener) Await(ctx context.Context) (Result, error) {
	results := make(chan Result, 1)

	// Loopback only; the redirect comes from the local browser and nothing
	// else should reach this port.
	srv := &http.Server{
		Addr:    "localhost:" + l.port,
		Handler: newRouter(results),
	}

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Checkout listener shutdown: %v", err)
		}
	}()

	select {
	case result := <-results:
		logger.Infof("Checkout finished: payment %s (%s)", result.PaymentID, result.Status)
		return result, nil
	case err := <-errs:
		return Result{}, err
	case <-ctx.Done():
		return Result{}, ErrCheckoutTimeout
	}
}

func newRouter(results chan<- Result) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/payment/callback", func(c *gin.Context) {
		result := Result{
			PaymentID: c.Query("payment_id"),
			Status:    c.DefaultQuery("status", "success"),
		}
		if result.PaymentID == "" {
			c.String(http.StatusBadRequest, "missing payment_id")
			return
		}

		select {
		case results <- result:
		default:
			// A second redirect for the same checkout; first one wins.
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "<html><body><h3>Payment received.</h3><p>You can return to the app.</p></body></html>")
	})

	return router
}
