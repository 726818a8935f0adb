package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/govindex/internal/domain/models"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// RenderResetPlan lists the non-empty entity kinds a reset would delete
func RenderResetPlan(out io.Writer, result *usecase.ResetStoreResult) {
	fmt.Fprintf(out, "Found %d entities to delete:\n\n", result.Total)
	for _, kind := range models.AllEntityKinds {
		if n := result.Counts[kind]; n > 0 {
			fmt.Fprintf(out, "  %-20s %d\n", string(kind)+":", n)
		}
	}
	fmt.Fprintln(out)
}
