package param

import (
	"fmt"
	"strconv"
	"strings"
)

// FrequencyFormatter formats frequency values with Hz/kHz
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// FrequencyParser parses frequency strings
func FrequencyParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	lower := strings.ToLower(str)

	if strings.HasSuffix(lower, "khz") {
		val, err := strconv.ParseFloat(strings.TrimSpace(str[:len(str)-3]), 64)
		if err != nil {
			return 0, err
		}
		return val * 1000, nil
	}
	if strings.HasSuffix(lower, "hz") {
		str = str[:len(str)-2]
	}
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// SilenceFloor is the level below which DecibelFormatter prints -∞.
const SilenceFloor = -96.0

// DecibelFormatter formats dB values
func DecibelFormatter(db float64) string {
	if db <= SilenceFloor {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// DecibelParser parses dB strings
func DecibelParser(str string) (float64, error) {
	if strings.Contains(str, "∞") || strings.Contains(strings.ToLower(str), "inf") {
		return SilenceFloor, nil
	}
	str = strings.TrimSpace(str)
	str = strings.TrimSuffix(strings.TrimSuffix(str, "dB"), "db")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// PercentFormatter formats percentage values
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}

// PercentParser parses percentage strings
func PercentParser(str string) (float64, error) {
	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// DistanceFormatter formats the normalized 0-100 distance
func DistanceFormatter(value float64) string {
	return fmt.Sprintf("%.1f", value)
}
