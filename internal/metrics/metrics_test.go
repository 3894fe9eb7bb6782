package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveShoppingExport(t *testing.T) {
	okBefore := testutil.ToFloat64(ShoppingExportsTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(ShoppingExportsTotal.WithLabelValues("error"))

	ObserveShoppingExport(3, 10*time.Millisecond, nil)
	ObserveShoppingExport(0, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(ShoppingExportsTotal.WithLabelValues("ok")); got != okBefore+1 {
		t.Errorf("ok counter = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(ShoppingExportsTotal.WithLabelValues("error")); got != errBefore+1 {
		t.Errorf("error counter = %v, want %v", got, errBefore+1)
	}
}

func TestObserveHTTP(t *testing.T) {
	ObserveHTTP("GET", "/api/tags", 200, time.Millisecond)

	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/tags", "200")); got < 1 {
		t.Errorf("expected request counter to be incremented, got %v", got)
	}
}
