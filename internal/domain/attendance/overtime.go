package attendance

// DefaultOvertimeThresholdMinutes is an 8 hour working day.
const DefaultOvertimeThresholdMinutes = 480

// OvertimeRule derives overtime from net worked minutes. It is kept apart from
// the reconstruction so per-venue or per-contract thresholds can be swapped in.
type OvertimeRule struct {
	ThresholdMinutes int
}

func DefaultOvertimeRule() OvertimeRule {
	return OvertimeRule{ThresholdMinutes: DefaultOvertimeThresholdMinutes}
}

// Overtime returns max(0, totalMinutes - threshold).
func (r OvertimeRule) Overtime(totalMinutes int) int {
	return max(0, totalMinutes-r.ThresholdMinutes)
}
