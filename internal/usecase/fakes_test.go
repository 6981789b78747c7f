package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"hospital-appointment/config"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/service"
	"hospital-appointment/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// memDB is an in-memory store shared by the fake repositories. Writes made
// inside memTransactor.WithinTransaction are undone when fn fails, and
// transactions run one at a time, which is enough to model the row lock a
// conditional UPDATE takes in PostgreSQL.
type memDB struct {
	mu   sync.Mutex
	txMu sync.Mutex

	clock        time.Time
	users        map[uuid.UUID]entity.User
	doctors      map[uuid.UUID]entity.DoctorProfile
	slots        map[int]entity.ScheduleSlot
	nextSlotID   int
	appointments map[uuid.UUID]entity.Appointment
	records      map[uuid.UUID]entity.MedicalRecord // by appointment id
	audits       []entity.AuditLog

	failAppointmentInsert error
	failAuditInsert       error
}

func newMemDB() *memDB {
	return &memDB{
		clock:        time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		users:        make(map[uuid.UUID]entity.User),
		doctors:      make(map[uuid.UUID]entity.DoctorProfile),
		slots:        make(map[int]entity.ScheduleSlot),
		appointments: make(map[uuid.UUID]entity.Appointment),
		records:      make(map[uuid.UUID]entity.MedicalRecord),
	}
}

// tick advances the fake clock. Callers hold mu.
func (m *memDB) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

type memSnapshot struct {
	users        map[uuid.UUID]entity.User
	doctors      map[uuid.UUID]entity.DoctorProfile
	slots        map[int]entity.ScheduleSlot
	nextSlotID   int
	appointments map[uuid.UUID]entity.Appointment
	records      map[uuid.UUID]entity.MedicalRecord
	audits       []entity.AuditLog
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memDB) snapshot() memSnapshot {
	return memSnapshot{
		users:        copyMap(m.users),
		doctors:      copyMap(m.doctors),
		slots:        copyMap(m.slots),
		nextSlotID:   m.nextSlotID,
		appointments: copyMap(m.appointments),
		records:      copyMap(m.records),
		audits:       append([]entity.AuditLog(nil), m.audits...),
	}
}

func (m *memDB) restore(s memSnapshot) {
	m.users = s.users
	m.doctors = s.doctors
	m.slots = s.slots
	m.nextSlotID = s.nextSlotID
	m.appointments = s.appointments
	m.records = s.records
	m.audits = s.audits
}

func (m *memDB) doctorWithUser(id uuid.UUID) (entity.DoctorProfile, bool) {
	d, ok := m.doctors[id]
	if !ok {
		return entity.DoctorProfile{}, false
	}
	d.User = m.users[d.UserID]
	return d, true
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

// memTransactor

type memTransactor struct {
	m *memDB
}

func (t memTransactor) Conn(ctx context.Context) *gorm.DB {
	return nil
}

func (t memTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.m.txMu.Lock()
	defer t.m.txMu.Unlock()

	t.m.mu.Lock()
	snap := t.m.snapshot()
	t.m.mu.Unlock()

	committed := false
	defer func() {
		if !committed {
			t.m.mu.Lock()
			t.m.restore(snap)
			t.m.mu.Unlock()
		}
	}()

	if err := fn(nil); err != nil {
		return err
	}
	committed = true
	return nil
}

// fakeUserRepo

type fakeUserRepo struct {
	m *memDB
}

func (r fakeUserRepo) Create(_ *gorm.DB, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range r.m.users {
		if u.Email == user.Email {
			return uniqueViolation("uq_users_email")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.m.tick()
	user.CreatedAt, user.UpdatedAt = now, now

	stored := *user
	stored.DoctorProfile = nil
	r.m.users[user.ID] = stored
	return nil
}

func (r fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range r.m.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, nil
	}
	for _, d := range r.m.doctors {
		if d.UserID == id {
			profile := d
			u.DoctorProfile = &profile
		}
	}
	return &u, nil
}

func (r fakeUserRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	delete(r.m.users, id)
	return nil
}

// fakeDoctorRepo

type fakeDoctorRepo struct {
	m *memDB
}

func (r fakeDoctorRepo) Create(_ *gorm.DB, profile *entity.DoctorProfile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[profile.UserID]; !ok {
		return foreignKeyViolation("fk_doctor_profiles_user")
	}
	for _, d := range r.m.doctors {
		if d.UserID == profile.UserID {
			return uniqueViolation("uq_doctor_profiles_user_id")
		}
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := r.m.tick()
	profile.CreatedAt, profile.UpdatedAt = now, now

	stored := *profile
	stored.User = entity.User{}
	stored.Slots = nil
	r.m.doctors[profile.ID] = stored
	return nil
}

func (r fakeDoctorRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.DoctorProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	d, ok := r.m.doctorWithUser(id)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r fakeDoctorRepo) FindByUserID(_ *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for id, d := range r.m.doctors {
		if d.UserID == userID {
			found, _ := r.m.doctorWithUser(id)
			return &found, nil
		}
	}
	return nil, nil
}

func (r fakeDoctorRepo) FindAll(_ *gorm.DB, filter entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	contains := func(value, sub string) bool {
		return sub == "" || strings.Contains(strings.ToLower(value), strings.ToLower(sub))
	}

	var out []entity.DoctorProfile
	for id, d := range r.m.doctors {
		if contains(d.Specialty, filter.Specialty) && contains(d.Location, filter.Location) {
			found, _ := r.m.doctorWithUser(id)
			out = append(out, found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.Name < out[j].User.Name })
	return out, nil
}

func (r fakeDoctorRepo) Update(_ *gorm.DB, profile *entity.DoctorProfile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	profile.UpdatedAt = r.m.tick()
	stored := *profile
	stored.User = entity.User{}
	stored.Slots = nil
	r.m.doctors[profile.ID] = stored
	return nil
}

// Delete cascades to slots, appointments and records like the schema does.
func (r fakeDoctorRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	delete(r.m.doctors, id)
	for slotID, s := range r.m.slots {
		if s.DoctorID == id {
			delete(r.m.slots, slotID)
		}
	}
	for apptID, a := range r.m.appointments {
		if a.DoctorID == id {
			delete(r.m.appointments, apptID)
			delete(r.m.records, apptID)
		}
	}
	return nil
}

// fakeSlotRepo

type fakeSlotRepo struct {
	m *memDB
}

func (r fakeSlotRepo) CreateIfAbsent(_ *gorm.DB, slot *entity.ScheduleSlot) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.doctors[slot.DoctorID]; !ok {
		return false, foreignKeyViolation("fk_schedule_slots_doctor")
	}
	for _, s := range r.m.slots {
		if s.DoctorID == slot.DoctorID && s.DateString() == slot.DateString() && s.TimeString() == slot.TimeString() {
			return false, nil
		}
	}

	r.m.nextSlotID++
	slot.ID = r.m.nextSlotID
	now := r.m.tick()
	slot.CreatedAt, slot.UpdatedAt = now, now

	stored := *slot
	stored.Doctor = nil
	r.m.slots[slot.ID] = stored
	return true, nil
}

func (r fakeSlotRepo) FindByID(_ *gorm.DB, id int) (*entity.ScheduleSlot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.slots[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r fakeSlotRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, filter entity.SlotFilter) ([]entity.ScheduleSlot, error) {
	return r.FindByDoctorIDs(db, []uuid.UUID{doctorID}, filter)
}

func (r fakeSlotRepo) FindByDoctorIDs(_ *gorm.DB, doctorIDs []uuid.UUID, filter entity.SlotFilter) ([]entity.ScheduleSlot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	wanted := make(map[uuid.UUID]bool, len(doctorIDs))
	for _, id := range doctorIDs {
		wanted[id] = true
	}

	out := []entity.ScheduleSlot{}
	for _, s := range r.m.slots {
		if !wanted[s.DoctorID] {
			continue
		}
		if filter.Date != nil && s.DateString() != time.Time(*filter.Date).Format(entity.SlotDateLayout) {
			continue
		}
		if filter.FromDate != nil && s.DateString() < time.Time(*filter.FromDate).Format(entity.SlotDateLayout) {
			continue
		}
		if filter.OnlyUnbooked && s.IsBooked {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(&out[j]) })
	return out, nil
}

func (r fakeSlotRepo) MarkBooked(_ *gorm.DB, id int) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.slots[id]
	if !ok || s.IsBooked {
		return 0, nil
	}
	s.IsBooked = true
	s.UpdatedAt = r.m.tick()
	r.m.slots[id] = s
	return 1, nil
}

// fakeAppointmentRepo

type fakeAppointmentRepo struct {
	m *memDB
}

func (r fakeAppointmentRepo) Create(_ *gorm.DB, appointment *entity.Appointment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.failAppointmentInsert != nil {
		return r.m.failAppointmentInsert
	}
	for _, a := range r.m.appointments {
		if a.SlotID == appointment.SlotID {
			return uniqueViolation("uq_appointments_slot_id")
		}
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := r.m.tick()
	appointment.CreatedAt, appointment.UpdatedAt = now, now

	stored := *appointment
	stored.Patient, stored.Doctor, stored.Slot = nil, nil, nil
	r.m.appointments[appointment.ID] = stored
	return nil
}

func (r fakeAppointmentRepo) hydrate(a entity.Appointment) entity.Appointment {
	if p, ok := r.m.users[a.PatientID]; ok {
		a.Patient = &p
	}
	if d, ok := r.m.doctorWithUser(a.DoctorID); ok {
		a.Doctor = &d
	}
	if s, ok := r.m.slots[a.SlotID]; ok {
		a.Slot = &s
	}
	return a
}

func (r fakeAppointmentRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	a, ok := r.m.appointments[id]
	if !ok {
		return nil, nil
	}
	found := r.hydrate(a)
	return &found, nil
}

func (r fakeAppointmentRepo) FindAll(_ *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []entity.Appointment{}
	for _, a := range r.m.appointments {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		out = append(out, r.hydrate(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Slot.Before(out[i].Slot) })
	return out, nil
}

func (r fakeAppointmentRepo) Update(_ *gorm.DB, appointment *entity.Appointment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stored, ok := r.m.appointments[appointment.ID]
	if !ok {
		return nil
	}
	appointment.UpdatedAt = r.m.tick()
	stored.Status = appointment.Status
	stored.Notes = appointment.Notes
	stored.UpdatedAt = appointment.UpdatedAt
	r.m.appointments[appointment.ID] = stored
	return nil
}

// fakeRecordRepo

type fakeRecordRepo struct {
	m *memDB
}

func (r fakeRecordRepo) Upsert(_ *gorm.DB, record *entity.MedicalRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	now := r.m.tick()
	if existing, ok := r.m.records[record.AppointmentID]; ok {
		existing.Diagnosis = record.Diagnosis
		existing.Prescription = record.Prescription
		existing.Attachments = record.Attachments
		existing.UpdatedAt = now
		r.m.records[record.AppointmentID] = existing

		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = now
		return nil
	}

	record.ID = uuid.New()
	record.CreatedAt, record.UpdatedAt = now, now
	stored := *record
	stored.Patient, stored.Doctor = nil, nil
	r.m.records[record.AppointmentID] = stored
	return nil
}

func (r fakeRecordRepo) hydrate(rec entity.MedicalRecord) entity.MedicalRecord {
	if p, ok := r.m.users[rec.PatientID]; ok {
		rec.Patient = &p
	}
	if d, ok := r.m.doctorWithUser(rec.DoctorID); ok {
		rec.Doctor = &d
	}
	return rec
}

func (r fakeRecordRepo) FindByAppointmentID(_ *gorm.DB, appointmentID uuid.UUID) (*entity.MedicalRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	rec, ok := r.m.records[appointmentID]
	if !ok {
		return nil, nil
	}
	found := r.hydrate(rec)
	return &found, nil
}

func (r fakeRecordRepo) FindAll(_ *gorm.DB, filter entity.RecordFilter) ([]entity.MedicalRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []entity.MedicalRecord{}
	for _, rec := range r.m.records {
		if filter.PatientID != nil && rec.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && rec.DoctorID != *filter.DoctorID {
			continue
		}
		out = append(out, r.hydrate(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// fakeAuditRepo

type fakeAuditRepo struct {
	m *memDB
}

func (r fakeAuditRepo) Create(_ *gorm.DB, log *entity.AuditLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.failAuditInsert != nil {
		return r.m.failAuditInsert
	}
	log.ID = int64(len(r.m.audits) + 1)
	log.CreatedAt = r.m.tick()
	stored := *log
	stored.User = nil
	r.m.audits = append(r.m.audits, stored)
	return nil
}

func (r fakeAuditRepo) FindAll(_ *gorm.DB, limit int) ([]entity.AuditLog, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []entity.AuditLog{}
	for i := len(r.m.audits) - 1; i >= 0 && len(out) < limit; i-- {
		log := r.m.audits[i]
		if log.UserID != nil {
			if u, ok := r.m.users[*log.UserID]; ok {
				log.User = &u
			}
		}
		out = append(out, log)
	}
	return out, nil
}

// fakeAnalyticsRepo

type fakeAnalyticsRepo struct {
	m *memDB
}

func (r fakeAnalyticsRepo) AppointmentCountsByDoctor(_ *gorm.DB) ([]entity.DoctorAppointmentCount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	out := []entity.DoctorAppointmentCount{}
	for id := range r.m.doctors {
		d, _ := r.m.doctorWithUser(id)
		var n int64
		for _, a := range r.m.appointments {
			if a.DoctorID == id {
				n++
			}
		}
		out = append(out, entity.DoctorAppointmentCount{DoctorID: id, DoctorName: d.User.Name, AppointmentCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentCount != out[j].AppointmentCount {
			return out[i].AppointmentCount > out[j].AppointmentCount
		}
		return out[i].DoctorName < out[j].DoctorName
	})
	return out, nil
}

func (r fakeAnalyticsRepo) CountUsersByRole(_ *gorm.DB, role entity.Role) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for _, u := range r.m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// fakeTokenStore

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]time.Duration)}
}

func (s *fakeTokenStore) Store(_ context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[service.TokenKey(userID, tokenType, tokenID)] = ttl
	return nil
}

func (s *fakeTokenStore) Exists(_ context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[service.TokenKey(userID, tokenType, tokenID)]
	return ok, nil
}

func (s *fakeTokenStore) Revoke(_ context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, service.TokenKey(userID, tokenType, tokenID))
	return nil
}

func (s *fakeTokenStore) RevokeAll(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.tokens {
		if strings.Contains(key, ":"+userID.String()+":") {
			delete(s.tokens, key)
		}
	}
	return nil
}

func (s *fakeTokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// testEnv wires every usecase to one memDB.

type testEnv struct {
	db     *memDB
	tokens *fakeTokenStore
	jwt    *jwt.JWTService

	schedules    ScheduleUsecase
	appointments AppointmentUsecase
	records      MedicalRecordUsecase
	analytics    AnalyticsUsecase
	doctors      DoctorProfileUsecase
	auth         AuthUsecase
	admins       AdminUsecase
	auditLogs    AuditLogUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	m := newMemDB()
	tx := memTransactor{m: m}
	users := fakeUserRepo{m: m}
	doctors := fakeDoctorRepo{m: m}
	slots := fakeSlotRepo{m: m}
	appointments := fakeAppointmentRepo{m: m}
	records := fakeRecordRepo{m: m}
	audits := fakeAuditRepo{m: m}
	tokens := newFakeTokenStore()
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	auditService := service.NewAuditService(log, audits)

	return &testEnv{
		db:           m,
		tokens:       tokens,
		jwt:          jwtService,
		schedules:    NewScheduleUsecase(tx, log, slots, doctors, auditService),
		appointments: NewAppointmentUsecase(tx, log, appointments, slots, auditService),
		records:      NewMedicalRecordUsecase(tx, log, records, appointments, auditService),
		analytics:    NewAnalyticsUsecase(tx, log, fakeAnalyticsRepo{m: m}),
		doctors:      NewDoctorProfileUsecase(tx, log, users, doctors, slots, auditService, tokens),
		auth:         NewAuthUsecase(tx, log, users, doctors, auditService, jwtService, tokens),
		admins:       NewAdminUsecase(tx, log, users, auditService),
		auditLogs:    NewAuditLogUsecase(tx, log, audits),
	}
}

func (e *testEnv) seedUser(t *testing.T, name string, role entity.Role) entity.User {
	t.Helper()
	user := entity.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := (fakeUserRepo{m: e.db}).Create(nil, &user); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func (e *testEnv) seedPatient(t *testing.T, name string) entity.PatientActor {
	t.Helper()
	return entity.PatientActor{UserID: e.seedUser(t, name, entity.RolePatient).ID}
}

func (e *testEnv) seedAdmin(t *testing.T) entity.AdminActor {
	t.Helper()
	return entity.AdminActor{UserID: e.seedUser(t, "Admin", entity.RoleAdmin).ID}
}

func (e *testEnv) seedDoctor(t *testing.T, name, specialty, location string) entity.DoctorActor {
	t.Helper()
	user := e.seedUser(t, name, entity.RoleDoctor)
	profile := entity.DoctorProfile{UserID: user.ID, Specialty: specialty, Location: location}
	if err := (fakeDoctorRepo{m: e.db}).Create(nil, &profile); err != nil {
		t.Fatalf("seed doctor %s: %v", name, err)
	}
	return entity.DoctorActor{UserID: user.ID, DoctorID: profile.ID}
}

func (e *testEnv) seedSlot(t *testing.T, doctorID uuid.UUID, date, clock string) int {
	t.Helper()
	d, err := entity.ParseSlotDate(date)
	if err != nil {
		t.Fatal(err)
	}
	c, err := entity.ParseSlotTime(clock)
	if err != nil {
		t.Fatal(err)
	}
	slot := entity.ScheduleSlot{DoctorID: doctorID, SlotDate: d, SlotTime: c}
	created, err := (fakeSlotRepo{m: e.db}).CreateIfAbsent(nil, &slot)
	if err != nil || !created {
		t.Fatalf("seed slot %s %s: created=%v err=%v", date, clock, created, err)
	}
	return slot.ID
}

func (e *testEnv) slot(t *testing.T, id int) entity.ScheduleSlot {
	t.Helper()
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	s, ok := e.db.slots[id]
	if !ok {
		t.Fatalf("slot %d not found", id)
	}
	return s
}

func (e *testEnv) appointmentCount() int {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return len(e.db.appointments)
}

func (e *testEnv) auditCount(action string) int {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	n := 0
	for _, a := range e.db.audits {
		if a.Action == action {
			n++
		}
	}
	return n
}

func strPtr(s string) *string {
	return &s
}
