package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventLoginSucceeded, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventLoginSucceeded}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventLoginFailed}))
	require.Equal(t, []EventType{EventLoginSucceeded}, got)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	handlerErr := errors.New("handler failed")
	var reached bool
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error { return handlerErr })
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLoginFailed})
	require.ErrorIs(t, err, handlerErr)
	require.True(t, reached)
}
