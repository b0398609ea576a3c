package settings

import (
	"context"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
)

// Result is the outcome of an asynchronous store call
type Result struct {
	Settings *models.GeoBlockingSettings
	Err      error
}

// Async runs op in its own goroutine and delivers the result on a buffered channel
func Async(ctx context.Context, op func(context.Context) (*models.GeoBlockingSettings, error)) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		s, err := op(ctx)
		ch <- Result{Settings: s, Err: err}
	}()
	return ch
}
