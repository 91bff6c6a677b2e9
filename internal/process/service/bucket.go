package service

import "github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"

// BucketForHour maps a raw hour cell to its production window. The ranges are the
// floor's actual schedule, first match wins: 9 o'clock and anything unparseable
// fall through to OUTROS, and the midnight batch ships with the late window.
func BucketForHour(raw string) model.TimeBucket {
	h, ok := ParseHourValue(raw)
	if !ok {
		return model.BucketOther
	}
	switch {
	case h == 8:
		return model.Bucket7to8
	case h >= 10 && h <= 13:
		return model.Bucket10to13
	case h == 14:
		return model.Bucket14
	case h == 15:
		return model.Bucket15
	case h == 0 || (h >= 16 && h <= 23):
		return model.Bucket16to17
	default:
		return model.BucketOther
	}
}
