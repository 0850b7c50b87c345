package report

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"patrimon/internal/domain"
)

// JSONRenderer emits the raw reconciliation result for machine consumers.
type JSONRenderer struct{}

type jsonEnvelope struct {
	Room        *domain.Room                 `json:"room"`
	AnalystName string                       `json:"analyst_name"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Result      *domain.ReconciliationResult `json:"result"`
}

func (r *JSONRenderer) Render(in Input) (*domain.ReportArtifact, error) {
	data, err := json.MarshalIndent(jsonEnvelope{
		Room:        in.Room,
		AnalystName: in.AnalystName,
		GeneratedAt: in.GeneratedAt,
		Result:      in.Result,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return &domain.ReportArtifact{
		Data:        data,
		Filename:    in.baseName() + ".json",
		ContentType: "application/json",
	}, nil
}
