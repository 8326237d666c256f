package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/stickerlabapp/stickerlab/internal/db"
	"github.com/stickerlabapp/stickerlab/internal/fulfillment"
	"github.com/stickerlabapp/stickerlab/internal/pricing"
	"github.com/stickerlabapp/stickerlab/internal/services"
)

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "invalid quantity",
			err:  fmt.Errorf("%w: got 0", pricing.ErrInvalidQuantity),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid dimensions",
			err:  pricing.ErrInvalidDimensions,
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid selection",
			err:  fmt.Errorf("%w: size mismatch", services.ErrInvalidSelection),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown status",
			err:  fulfillment.ErrUnknownStatus,
			want: http.StatusBadRequest,
		},
		{
			name: "illegal transition",
			err:  fmt.Errorf("%w: pending -> shipped", fulfillment.ErrIllegalTransition),
			want: http.StatusConflict,
		},
		{
			name: "terminal state",
			err:  fulfillment.ErrTerminalState,
			want: http.StatusConflict,
		},
		{
			name: "concurrent transition",
			err:  db.ErrTransitionConflict,
			want: http.StatusConflict,
		},
		{
			name: "missing row",
			err:  fmt.Errorf("failed to get order: %w", pgx.ErrNoRows),
			want: http.StatusNotFound,
		},
		{
			name: "anything else",
			err:  errors.New("connection reset"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := statusForError(tc.err); got != tc.want {
				t.Fatalf("statusForError() = %d, want %d", got, tc.want)
			}
		})
	}
}
