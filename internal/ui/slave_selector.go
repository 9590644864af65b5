package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/rvollmer/esitool/internal/device"
)

// SelectSlave shows an interactive form listing the slaves on the bus
// and returns the chosen ring position. An error is returned when the
// user aborts or no slaves are present.
func SelectSlave(slaves []device.Slave) (int, error) {
	if len(slaves) == 0 {
		return 0, fmt.Errorf("no slaves found on the bus")
	}

	options := make([]huh.Option[int], 0, len(slaves))
	for _, s := range slaves {
		options = append(options, huh.NewOption(s.String(), s.Position))
	}

	position := slaves[0].Position
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select slave").
				Description("Ring position, state and device name.").
				Options(options...).
				Value(&position),
		),
	)
	if err := form.Run(); err != nil {
		return 0, fmt.Errorf("slave selection aborted: %w", err)
	}
	return position, nil
}
