package midi

// LEDFPS is the refresh rate of controller LEDs
const LEDFPS = 30

// LEDDiffer remembers what the device shows so only changes are sent
type LEDDiffer struct {
	prev map[[2]int]LEDUpdate
}

// Diff returns the updates needed to go from the last frame to leds.
// Pads lit last frame but absent now are switched off.
func (d *LEDDiffer) Diff(leds []LEDUpdate) []LEDUpdate {
	next := make(map[[2]int]LEDUpdate, len(leds))
	var updates []LEDUpdate

	for _, led := range leds {
		key := [2]int{led.Row, led.Col}
		next[key] = led
		if prev, ok := d.prev[key]; !ok || prev != led {
			updates = append(updates, led)
		}
	}
	for key := range d.prev {
		if _, ok := next[key]; !ok {
			updates = append(updates, LEDUpdate{Row: key[0], Col: key[1]})
		}
	}

	d.prev = next
	return updates
}

// Reset forgets the device state, so the next Diff resends everything
func (d *LEDDiffer) Reset() {
	d.prev = nil
}
