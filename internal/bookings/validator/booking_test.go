package validator

import (
	"testing"
	"time"

	"roomly/pkg/logger"
	"roomly/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestValidateWindow(t *testing.T) {
	v := NewBookingValidator(testLogger())
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid window", base, base.Add(time.Hour), false},
		{"one minute window", base, base.Add(time.Minute), false},
		{"past start is allowed", base.Add(-48 * time.Hour), base.Add(-47 * time.Hour), false},
		{"zero duration", base, base, true},
		{"end before start", base, base.Add(-time.Hour), true},
		{"zero start", time.Time{}, base, true},
		{"zero end", base, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWindow(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWindow(%v, %v) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	v := NewBookingValidator(testLogger())
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	valid := func() *model.Booking {
		return &model.Booking{
			RoomID:    "64b5f0a1c2d3e4f5a6b7c8d9",
			UserID:    "64b5f0a1c2d3e4f5a6b7c8da",
			StartTime: base,
			EndTime:   base.Add(time.Hour),
			Status:    model.StatusPending,
		}
	}

	if err := v.Validate(valid()); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}

	ownerless := valid()
	ownerless.UserID = ""
	if err := v.Validate(ownerless); err != nil {
		t.Errorf("ownerless booking must pass validation: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{"missing room", func(b *model.Booking) { b.RoomID = "" }},
		{"malformed room id", func(b *model.Booking) { b.RoomID = "not-an-object-id" }},
		{"malformed user id", func(b *model.Booking) { b.UserID = "xyz" }},
		{"end not after start", func(b *model.Booking) { b.EndTime = b.StartTime }},
		{"unknown status", func(b *model.Booking) { b.Status = "cancelled" }},
		{"missing status", func(b *model.Booking) { b.Status = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			tt.mutate(b)
			if err := v.Validate(b); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "RoomID", Message: "RoomID is required"},
		{Field: "EndTime", Message: "end_time must be after start_time"},
	}

	msg := errs.Error()
	if msg == "" {
		t.Fatal("expected non-empty message")
	}
	if got := (ValidationErrors{}).Error(); got != "" {
		t.Errorf("empty error list must stringify empty, got %q", got)
	}
}
