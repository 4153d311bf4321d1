package AI

import (
	"context"
	"fmt"
)

// mock is a deterministic Advisor for development and tests.
type mock struct{}

func NewMock() Advisor { return &mock{} }

func (m *mock) PreventiveMeasures(_ context.Context, disease, crop, location string) (string, error) {
	return fmt.Sprintf(
		"1. Inspect your %s field for early signs of %s.\n"+
			"2. Remove and destroy infected plant material.\n"+
			"3. Avoid overhead irrigation until the outbreak near %s subsides.",
		crop, disease, location), nil
}

func (m *mock) GrowthGuide(_ context.Context, crop, location string) (string, error) {
	return fmt.Sprintf("**%s growing guide for %s**\n\n- Prepare soil\n- Plant\n- Irrigate on schedule\n- Scout for pests weekly\n- Harvest at maturity", crop, location), nil
}
