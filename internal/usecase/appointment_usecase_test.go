package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/pkg/apperror"

	"github.com/google/uuid"
)

func TestCreateAppointment_BookAndConfirm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor := env.seedDoctor(t, "Dr Grey", "Cardiology", "Seattle")
	slotID := env.seedSlot(t, doctor.DoctorID, "2024-01-10", "09:00")
	patient := env.seedPatient(t, "Pat One")

	appt, err := env.appointments.CreateAppointment(ctx, patient, &dto.CreateAppointmentRequest{
		DoctorID: doctor.DoctorID,
		SlotID:   slotID,
		Notes:    "first visit",
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if appt.Status != string(entity.AppointmentStatusPending) {
		t.Errorf("status = %q, want pending", appt.Status)
	}
	if appt.PatientID != patient.UserID || appt.DoctorID != doctor.DoctorID {
		t.Errorf("appointment parties = (%s, %s)", appt.PatientID, appt.DoctorID)
	}
	if appt.PatientName != "Pat One" || appt.DoctorName != "Dr Grey" {
		t.Errorf("names = (%q, %q)", appt.PatientName, appt.DoctorName)
	}
	if appt.SlotDate != "2024-01-10" || appt.SlotTime != "09:00:00" {
		t.Errorf("slot = %s %s", appt.SlotDate, appt.SlotTime)
	}
	if !env.slot(t, slotID).IsBooked {
		t.Error("slot not marked booked")
	}
	if n := env.auditCount(entity.AuditActionAppointmentCreate); n != 1 {
		t.Errorf("appointment.create audits = %d, want 1", n)
	}

	updated, err := env.appointments.UpdateAppointment(ctx, doctor, appt.ID, &dto.UpdateAppointmentRequest{
		Status: strPtr("confirmed"),
	})
	if err != nil {
		t.Fatalf("UpdateAppointment: %v", err)
	}
	if updated.Status != "confirmed" || updated.Notes != "first visit" {
		t.Errorf("updated = (%q, %q)", updated.Status, updated.Notes)
	}

	other := env.seedPatient(t, "Pat Two")
	_, err = env.appointments.CreateAppointment(ctx, other, &dto.CreateAppointmentRequest{
		DoctorID: doctor.DoctorID,
		SlotID:   slotID,
	})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("second booking err = %v, want ErrSlotAlreadyBooked", err)
	}
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Errorf("kind = %s, want conflict", apperror.KindOf(err))
	}
	if n := env.appointmentCount(); n != 1 {
		t.Errorf("appointments = %d, want 1", n)
	}
}

func TestCreateAppointment_ConcurrentBookersGetOneSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor := env.seedDoctor(t, "Dr House", "Diagnostics", "Princeton")
	slotID := env.seedSlot(t, doctor.DoctorID, "2024-02-01", "10:30")

	const bookers = 20
	patients := make([]entity.PatientActor, bookers)
	for i := range patients {
		patients[i] = env.seedPatient(t, "Patient "+uuid.NewString())
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	for _, p := range patients {
		wg.Add(1)
		go func(p entity.PatientActor) {
			defer wg.Done()
			_, err := env.appointments.CreateAppointment(ctx, p, &dto.CreateAppointmentRequest{
				DoctorID: doctor.DoctorID,
				SlotID:   slotID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotAlreadyBooked):
				conflicts++
			default:
				others = append(others, err)
			}
		}(p)
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if successes != 1 || conflicts != bookers-1 {
		t.Errorf("successes = %d, conflicts = %d", successes, conflicts)
	}
	if n := env.appointmentCount(); n != 1 {
		t.Errorf("appointments = %d, want 1", n)
	}
}

func TestCreateAppointment_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor := env.seedDoctor(t, "Dr Who", "General", "London")
	otherDoctor := env.seedDoctor(t, "Dr Strange", "Surgery", "New York")
	slotID := env.seedSlot(t, doctor.DoctorID, "2024-03-01", "08:00")
	patient := env.seedPatient(t, "Pat")

	tests := []struct {
		name  string
		actor entity.Actor
		req   dto.CreateAppointmentRequest
		want  error
	}{
		{"doctor cannot book", doctor, dto.CreateAppointmentRequest{DoctorID: doctor.DoctorID, SlotID: slotID}, ErrForbidden},
		{"admin cannot book", env.seedAdmin(t), dto.CreateAppointmentRequest{DoctorID: doctor.DoctorID, SlotID: slotID}, ErrForbidden},
		{"missing slot", patient, dto.CreateAppointmentRequest{DoctorID: doctor.DoctorID, SlotID: 999}, ErrSlotNotFound},
		{"slot of another doctor", patient, dto.CreateAppointmentRequest{DoctorID: otherDoctor.DoctorID, SlotID: slotID}, ErrSlotDoctorMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.appointments.CreateAppointment(ctx, tt.actor, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if env.slot(t, slotID).IsBooked {
		t.Error("slot booked by a failed request")
	}
}

func TestCreateAppointment_RollsBackWhenInsertFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor := env.seedDoctor(t, "Dr Quinn", "Family", "Colorado")
	slotID := env.seedSlot(t, doctor.DoctorID, "2024-04-01", "11:00")
	patient := env.seedPatient(t, "Pat")

	env.db.failAppointmentInsert = errors.New("connection reset")
	_, err := env.appointments.CreateAppointment(ctx, patient, &dto.CreateAppointmentRequest{
		DoctorID: doctor.DoctorID,
		SlotID:   slotID,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperror.KindOf(err) != apperror.KindUnexpected {
		t.Errorf("kind = %s, want unexpected", apperror.KindOf(err))
	}
	if env.slot(t, slotID).IsBooked {
		t.Error("slot still booked after rollback")
	}

	env.db.failAppointmentInsert = nil
	if _, err := env.appointments.CreateAppointment(ctx, patient, &dto.CreateAppointmentRequest{
		DoctorID: doctor.DoctorID,
		SlotID:   slotID,
	}); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestCreateAppointment_RollsBackWhenAuditFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor := env.seedDoctor(t, "Dr Quinn", "Family", "Colorado")
	slotID := env.seedSlot(t, doctor.DoctorID, "2024-04-01", "11:00")
	patient := env.seedPatient(t, "Pat")

	env.db.failAuditInsert = errors.New("disk full")
	if _, err := env.appointments.CreateAppointment(ctx, patient, &dto.CreateAppointmentRequest{
		DoctorID: doctor.DoctorID,
		SlotID:   slotID,
	}); err == nil {
		t.Fatal("expected error")
	}
	if env.slot(t, slotID).IsBooked {
		t.Error("slot still booked after rollback")
	}
	if n := env.appointmentCount(); n != 0 {
		t.Errorf("appointments = %d, want 0", n)
	}
}

func TestUpdateAppointment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor := env.seedDoctor(t, "Dr Grey", "Cardiology", "Seattle")
	otherDoctor := env.seedDoctor(t, "Dr Shepherd", "Neurology", "Seattle")
	patient := env.seedPatient(t, "Pat")
	admin := env.seedAdmin(t)
	slotID := env.seedSlot(t, doctor.DoctorID, "2024-01-10", "09:00")

	appt, err := env.appointments.CreateAppointment(ctx, patient, &dto.CreateAppointmentRequest{
		DoctorID: doctor.DoctorID,
		SlotID:   slotID,
		Notes:    "original",
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	t.Run("bogus status leaves appointment unchanged", func(t *testing.T) {
		_, err := env.appointments.UpdateAppointment(ctx, doctor, appt.ID, &dto.UpdateAppointmentRequest{
			Status: strPtr("bogus"),
			Notes:  strPtr("changed"),
		})
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("err = %v, want ErrInvalidStatus", err)
		}
		got, _ := env.appointments.GetAppointment(ctx, doctor, appt.ID)
		if got.Status != "pending" || got.Notes != "original" {
			t.Errorf("appointment changed to (%q, %q)", got.Status, got.Notes)
		}
	})

	t.Run("unknown appointment", func(t *testing.T) {
		_, err := env.appointments.UpdateAppointment(ctx, admin, uuid.New(), &dto.UpdateAppointmentRequest{Notes: strPtr("x")})
		if !errors.Is(err, ErrAppointmentNotFound) {
			t.Errorf("err = %v, want ErrAppointmentNotFound", err)
		}
	})

	t.Run("patient cannot update", func(t *testing.T) {
		_, err := env.appointments.UpdateAppointment(ctx, patient, appt.ID, &dto.UpdateAppointmentRequest{Status: strPtr("cancelled")})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("other doctor cannot update", func(t *testing.T) {
		_, err := env.appointments.UpdateAppointment(ctx, otherDoctor, appt.ID, &dto.UpdateAppointmentRequest{Status: strPtr("confirmed")})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := env.appointments.UpdateAppointment(ctx, doctor, appt.ID, &dto.UpdateAppointmentRequest{Status: strPtr("")})
		if !errors.Is(err, ErrNoFieldsToUpdate) {
			t.Errorf("err = %v, want ErrNoFieldsToUpdate", err)
		}
	})

	t.Run("notes only", func(t *testing.T) {
		got, err := env.appointments.UpdateAppointment(ctx, admin, appt.ID, &dto.UpdateAppointmentRequest{Notes: strPtr("")})
		if err != nil {
			t.Fatalf("UpdateAppointment: %v", err)
		}
		if got.Status != "pending" || got.Notes != "" {
			t.Errorf("got (%q, %q)", got.Status, got.Notes)
		}
	})

	t.Run("cancel keeps the slot booked", func(t *testing.T) {
		got, err := env.appointments.UpdateAppointment(ctx, doctor, appt.ID, &dto.UpdateAppointmentRequest{Status: strPtr("cancelled")})
		if err != nil {
			t.Fatalf("UpdateAppointment: %v", err)
		}
		if got.Status != "cancelled" {
			t.Errorf("status = %q", got.Status)
		}
		if !env.slot(t, slotID).IsBooked {
			t.Error("cancel released the slot")
		}
	})

	t.Run("any status may follow any other", func(t *testing.T) {
		got, err := env.appointments.UpdateAppointment(ctx, doctor, appt.ID, &dto.UpdateAppointmentRequest{Status: strPtr("pending")})
		if err != nil {
			t.Fatalf("UpdateAppointment: %v", err)
		}
		if got.Status != "pending" {
			t.Errorf("status = %q", got.Status)
		}
	})

	if n := env.auditCount(entity.AuditActionAppointmentUpdate); n != 3 {
		t.Errorf("appointment.update audits = %d, want 3", n)
	}
}

func TestListAppointments_ScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d1 := env.seedDoctor(t, "Dr One", "Cardiology", "A")
	d2 := env.seedDoctor(t, "Dr Two", "Neurology", "B")
	p1 := env.seedPatient(t, "Pat One")
	p2 := env.seedPatient(t, "Pat Two")
	admin := env.seedAdmin(t)

	book := func(p entity.PatientActor, d entity.DoctorActor, date, clock string) {
		t.Helper()
		slotID := env.seedSlot(t, d.DoctorID, date, clock)
		if _, err := env.appointments.CreateAppointment(ctx, p, &dto.CreateAppointmentRequest{DoctorID: d.DoctorID, SlotID: slotID}); err != nil {
			t.Fatalf("book: %v", err)
		}
	}
	book(p1, d1, "2024-01-10", "09:00")
	book(p1, d2, "2024-01-12", "09:00")
	book(p2, d1, "2024-01-11", "09:00")

	tests := []struct {
		name  string
		actor entity.Actor
		want  int
	}{
		{"patient one", p1, 2},
		{"patient two", p2, 1},
		{"doctor one", d1, 2},
		{"doctor two", d2, 1},
		{"admin", admin, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := env.appointments.ListAppointments(ctx, tt.actor)
			if err != nil {
				t.Fatalf("ListAppointments: %v", err)
			}
			if list.Total != tt.want || len(list.Appointments) != tt.want {
				t.Errorf("total = %d, len = %d, want %d", list.Total, len(list.Appointments), tt.want)
			}
		})
	}

	list, _ := env.appointments.ListAppointments(ctx, admin)
	if list.Appointments[0].SlotDate != "2024-01-12" || list.Appointments[2].SlotDate != "2024-01-10" {
		t.Errorf("admin list not newest slot first: %s .. %s", list.Appointments[0].SlotDate, list.Appointments[2].SlotDate)
	}
}

func TestGetAppointment_HidesOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor := env.seedDoctor(t, "Dr One", "Cardiology", "A")
	owner := env.seedPatient(t, "Owner")
	stranger := env.seedPatient(t, "Stranger")
	slotID := env.seedSlot(t, doctor.DoctorID, "2024-01-10", "09:00")

	appt, err := env.appointments.CreateAppointment(ctx, owner, &dto.CreateAppointmentRequest{DoctorID: doctor.DoctorID, SlotID: slotID})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	if _, err := env.appointments.GetAppointment(ctx, owner, appt.ID); err != nil {
		t.Errorf("owner: %v", err)
	}
	if _, err := env.appointments.GetAppointment(ctx, doctor, appt.ID); err != nil {
		t.Errorf("doctor: %v", err)
	}
	if _, err := env.appointments.GetAppointment(ctx, stranger, appt.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("stranger err = %v, want ErrAppointmentNotFound", err)
	}
}
