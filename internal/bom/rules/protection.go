package rules

import "github.com/solarwerk/pv-planner/internal/bom"

var _ bom.Rule = (*Protection)(nil)

// Protection adds the chosen breaker, cable and RCD of every device class,
// scaled by the reference device's quantity. Cable is additionally scaled by
// the per-device cable length.
type Protection struct{}

func NewProtection() *Protection { return &Protection{} }

func (r *Protection) Name() string { return "protection" }

func (r *Protection) Apply(in *bom.Input, out *bom.Sink) {
	for _, class := range bom.DeviceClasses {
		chosen := in.Chosen[class]
		if chosen.IsZero() {
			continue
		}
		device, ok := in.Configuration.ReferenceDevice(class)
		if !ok {
			continue
		}
		out.Add(chosen.BreakerID, device.Quantity, CategoryProtection)
		out.Add(chosen.CableID, device.Quantity*in.Defaults.CableLengthFor(class), CategoryProtection)
		out.Add(chosen.RCDID, device.Quantity, CategoryProtection)
	}
}
