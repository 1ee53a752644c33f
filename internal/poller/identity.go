package poller

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Identity decoders for the two bespoke encodings found in device
// responses: the MAC-like serial format and the multi-scheme timestamp
// format. Both are total; malformed input yields a best-effort string or a
// nil timestamp, never a panic.

var literalTimeRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

const literalTimeLayout = "2006-01-02 15:04:05"

// NormalizeSerial converts a colon-separated hex octet sequence into the
// canonical ONU serial form: the first 4 octets become their ASCII
// characters, the remaining octets become uppercase hex digits with no
// separator. An empty input yields an empty result; octets that fail to
// parse are kept as their original text.
func NormalizeSerial(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, ":")
	var sb strings.Builder
	for i, part := range parts {
		if i < 4 {
			v, err := strconv.ParseUint(part, 16, 8)
			if err != nil {
				sb.WriteString(part)
				continue
			}
			sb.WriteByte(byte(v))
			continue
		}
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			sb.WriteString(part)
			continue
		}
		sb.WriteString(fmt.Sprintf("%02X", v))
	}
	return strings.ToUpper(sb.String())
}

// ParseDeviceTime decodes an ONU last-online timestamp. Two wire forms
// exist: a literal "YYYY-MM-DD HH:MM:SS" string, and a colon-separated
// sequence of >=7 hex octets carrying year-high, year-low, month, day,
// hour, minute, second, optionally followed by deciseconds and a UTC offset
// (direction byte, hours, minutes) in the 11-field variant. Returns nil for
// anything malformed; callers must treat nil as "timestamp unknown".
func ParseDeviceTime(raw string) *time.Time {
	if literalTimeRegexp.MatchString(raw) {
		t, err := time.ParseInLocation(literalTimeLayout, raw, time.Local)
		if err != nil {
			return nil
		}
		return &t
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 7 {
		return nil
	}

	year, err := strconv.ParseInt(parts[0]+parts[1], 16, 32)
	if err != nil {
		return nil
	}
	var fields [5]int
	for i := 2; i <= 6; i++ {
		v, err := strconv.ParseInt(parts[i], 16, 32)
		if err != nil {
			return nil
		}
		fields[i-2] = int(v)
	}
	month, day, hour, minute, second := fields[0], fields[1], fields[2], fields[3], fields[4]

	if month < 1 || month > 12 ||
		day < 1 || day > 31 ||
		hour < 0 || hour > 23 ||
		minute < 0 || minute > 59 ||
		second < 0 || second > 60 {
		return nil
	}

	loc := time.Local
	if len(parts) >= 11 {
		// Huawei variant carries a fixed UTC offset: an ASCII '+'/'-'
		// direction byte followed by offset hours and minutes.
		dir, err := hex.DecodeString(parts[8])
		if err != nil || len(dir) == 0 {
			return nil
		}
		tzHour, err := strconv.ParseInt(parts[9], 16, 32)
		if err != nil {
			return nil
		}
		tzMin, err := strconv.ParseInt(parts[10], 16, 32)
		if err != nil {
			return nil
		}
		offsetMinutes := int(tzHour)*60 + int(tzMin)
		if dir[0] == '-' {
			offsetMinutes = -offsetMinutes
		}
		loc = time.FixedZone("", offsetMinutes*60)
	}

	t := time.Date(int(year), time.Month(month), day, hour, minute, second, 0, loc)
	// time.Date normalizes impossible fields (Feb 30, second 60) instead of
	// failing; reject anything that did not round-trip.
	if t.Year() != int(year) || t.Month() != time.Month(month) || t.Day() != day ||
		t.Hour() != hour || t.Minute() != minute || t.Second() != second {
		return nil
	}
	return &t
}
