package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TimeString
		wantErr bool
	}{
		{name: "plain", in: "09:00", want: "09:00"},
		{name: "with seconds", in: "17:30:00", want: "17:30"},
		{name: "single digit hour", in: "9:05", want: "09:05"},
		{name: "garbage", in: "nine", wantErr: true},
		{name: "out of range", in: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutesAndCompare(t *testing.T) {
	open := TimeString("09:00")

	later, err := open.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), later)
	assert.True(t, open.IsBefore(later))
	assert.True(t, later.IsAfter(open))
	assert.False(t, open.IsBefore(open))

	_, err = TimeString("23:30").AddMinutes(45)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	got, err := TimeString("09:15").On(date, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 2, 9, 15, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("08:30:00"))
	assert.Equal(t, TimeString("08:30"), ts)

	require.NoError(t, ts.Scan([]byte("12:00:00")))
	assert.Equal(t, TimeString("12:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:45"), ts)

	assert.Error(t, ts.Scan(42))
}
