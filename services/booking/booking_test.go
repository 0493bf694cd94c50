package booking

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"wheelstrust/database/repository"
	"wheelstrust/database/repository/memory"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg models.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

type fixture struct {
	svc       *DefaultBookingService
	bookings  *memory.BookingRepo
	providers *memory.ProviderRepo
	users     *memory.UserRepo
	notifier  *recordingNotifier

	buyer    access.Actor
	owner    access.Actor
	stranger access.Actor
	admin    access.Actor
	provider *models.ServiceProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		bookings:  memory.NewBookingRepo(),
		providers: memory.NewProviderRepo(),
		users:     memory.NewUserRepo(),
		notifier:  &recordingNotifier{},
		buyer:     access.Actor{ID: "buyer", Role: models.RoleUser},
		owner:     access.Actor{ID: "owner", Role: models.RoleServiceProvider},
		stranger:  access.Actor{ID: "stranger", Role: models.RoleUser},
		admin:     access.Actor{ID: "admin", Role: models.RoleAdmin},
	}
	for _, u := range []models.User{
		{ID: "buyer", Name: "Buyer", Email: "buyer@example.com", Role: models.RoleUser},
		{ID: "owner", Name: "Owner", Email: "owner@example.com", Role: models.RoleServiceProvider},
	} {
		u := u
		require.NoError(t, f.users.Create(ctx, &u))
	}
	f.provider = &models.ServiceProvider{ID: "prov-1", User: "owner", BusinessName: "Quick Lube", Email: "shop@example.com"}
	require.NoError(t, f.providers.Create(ctx, f.provider))

	f.svc = NewDefaultBookingService(f.bookings, f.providers, f.users, nil, f.notifier, nil, nil)
	return f
}

func price(v float64) *float64 { return &v }

func validInput() models.BookingInput {
	return models.BookingInput{
		ServiceProvider: "prov-1",
		Services: []models.BookingLineItem{
			{Name: "Oil change", Price: 50, Duration: "30"},
			{Name: "Tyre rotation", Price: 25.5, Duration: "20"},
		},
		Date:       "2025-03-14",
		Time:       "10:00 AM",
		TotalPrice: price(75.5),
		Notes:      "  bring the spare  ",
	}
}

func requireAppError(t *testing.T, err error, status int) *utils.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %T: %v", err, err)
	assert.Equal(t, status, appErr.Status)
	return appErr
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateBooking(context.Background(), f.buyer, validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, "buyer", b.User)
	assert.Equal(t, "prov-1", b.ServiceProvider)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), b.Date)
	assert.Equal(t, "bring the spare", b.Notes)
	assert.True(t, b.HoldsSlot)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "owner", f.notifier.sent[0].Recipient)
	assert.Equal(t, models.NotificationBookingCreated, f.notifier.sent[0].Type)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(in *models.BookingInput)
	}{
		{"serviceProvider", func(in *models.BookingInput) { in.ServiceProvider = "" }},
		{"services", func(in *models.BookingInput) { in.Services = nil }},
		{"date", func(in *models.BookingInput) { in.Date = "" }},
		{"time", func(in *models.BookingInput) { in.Time = "" }},
		{"totalPrice", func(in *models.BookingInput) { in.TotalPrice = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := newFixture(t)
			in := validInput()
			tt.mutate(&in)

			_, err := f.svc.CreateBooking(context.Background(), f.buyer, in)
			appErr := requireAppError(t, err, http.StatusBadRequest)
			assert.Equal(t, utils.KindValidation, appErr.Code)
			assert.Equal(t, utils.FieldDetails{Field: tt.field}, appErr.Details)
		})
	}
}

func TestCreateBooking_FirstMissingFieldIsReported(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.Date = ""
	in.TotalPrice = nil

	_, err := f.svc.CreateBooking(context.Background(), f.buyer, in)
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, utils.FieldDetails{Field: "date"}, appErr.Details)
}

func TestCreateBooking_UnknownProviderIsCheckedFirst(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.ServiceProvider = "nope"
	in.Services = nil

	_, err := f.svc.CreateBooking(context.Background(), f.buyer, in)
	appErr := requireAppError(t, err, http.StatusNotFound)
	assert.Equal(t, utils.KindNotFound, appErr.Code)
}

func TestCreateBooking_RejectsNonCanonicalTimeAndWrongTotal(t *testing.T) {
	f := newFixture(t)

	in := validInput()
	in.Time = "10:30 AM"
	_, err := f.svc.CreateBooking(context.Background(), f.buyer, in)
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, utils.FieldDetails{Field: "time"}, appErr.Details)

	in = validInput()
	in.TotalPrice = price(10)
	_, err = f.svc.CreateBooking(context.Background(), f.buyer, in)
	appErr = requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, utils.FieldDetails{Field: "totalPrice"}, appErr.Details)

	in = validInput()
	in.TotalPrice = price(75.504)
	_, err = f.svc.CreateBooking(context.Background(), f.buyer, in)
	assert.NoError(t, err)
}

func TestCreateBooking_DoubleBookingConflicts(t *testing.T) {
	f := newFixture(t)
	other := access.Actor{ID: "other", Role: models.RoleUser}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, actor := range []access.Actor{f.buyer, other} {
		wg.Add(1)
		go func(i int, actor access.Actor) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateBooking(context.Background(), actor, validInput())
		}(i, actor)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireAppError(t, err, http.StatusConflict)
		conflicted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
}

func TestCreateBooking_NotificationFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("queue down")

	b, err := f.svc.CreateBooking(context.Background(), f.buyer, validInput())
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	pending, err := f.svc.CreateBooking(ctx, f.buyer, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Time = "02:00 PM"
	cancelled, err := f.svc.CreateBooking(ctx, f.buyer, in)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, f.buyer, cancelled.ID, "cancelled")
	require.NoError(t, err)

	slots, err := f.svc.CheckAvailability(ctx, "prov-1", day)
	require.NoError(t, err)
	require.Len(t, slots, len(models.SlotLabels))
	for i, slot := range slots {
		assert.Equal(t, models.SlotLabels[i], slot.Time)
		if slot.Time == pending.Time {
			assert.True(t, slot.IsBooked)
			assert.Equal(t, "booked", slot.Status)
			continue
		}
		assert.False(t, slot.IsBooked, slot.Time)
		assert.Equal(t, "available", slot.Status)
	}

	unknown, err := f.svc.CheckAvailability(ctx, "no-such-provider", day)
	require.NoError(t, err)
	for _, slot := range unknown {
		assert.False(t, slot.IsBooked)
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.CreateBooking(ctx, f.buyer, validInput())
	require.NoError(t, err)

	res, err := f.svc.UpdateStatus(ctx, f.owner, b.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, res.Status)

	// Same status again is a no-op.
	res, err = f.svc.UpdateStatus(ctx, f.owner, b.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, res.Status)

	_, err = f.svc.UpdateStatus(ctx, f.owner, b.ID, "pending")
	requireAppError(t, err, http.StatusBadRequest)

	res, err = f.svc.UpdateStatus(ctx, f.admin, b.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, res.Status)

	_, err = f.svc.UpdateStatus(ctx, f.buyer, b.ID, "cancelled")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestUpdateStatus_EnumClosure(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.CreateBooking(context.Background(), f.buyer, validInput())
	require.NoError(t, err)

	for _, status := range []string{"", "approved", "PENDING", "done"} {
		_, err := f.svc.UpdateStatus(context.Background(), f.buyer, b.ID, status)
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, utils.FieldDetails{Field: "status"}, appErr.Details)
	}
}

func TestUpdateStatus_NotifiesOtherParty(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.CreateBooking(context.Background(), f.buyer, validInput())
	require.NoError(t, err)
	f.notifier.sent = nil

	_, err = f.svc.UpdateStatus(context.Background(), f.owner, b.ID, "confirmed")
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "buyer", f.notifier.sent[0].Recipient)
	assert.Equal(t, models.NotificationBookingStatus, f.notifier.sent[0].Type)
}

func TestMutations_ForbiddenForStrangerRegardlessOfBody(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.CreateBooking(ctx, f.buyer, validInput())
	require.NoError(t, err)

	for _, status := range []string{"confirmed", "bogus", ""} {
		_, err := f.svc.UpdateStatus(ctx, f.stranger, b.ID, status)
		requireAppError(t, err, http.StatusForbidden)
	}

	for _, in := range []models.BookingInput{validInput(), {}} {
		_, err := f.svc.ReplaceBooking(ctx, f.stranger, b.ID, in)
		requireAppError(t, err, http.StatusForbidden)
	}

	_, err = f.svc.GetBooking(ctx, f.stranger, b.ID)
	requireAppError(t, err, http.StatusForbidden)

	err = f.svc.DeleteBooking(ctx, f.stranger, b.ID)
	requireAppError(t, err, http.StatusForbidden)

	_, err = f.bookings.GetByID(ctx, b.ID)
	assert.NoError(t, err, "booking must survive a forbidden delete")
}

func TestDeleteBooking_OwnerSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.buyer, validInput())
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBooking(ctx, f.owner, b.ID))

	_, err = f.bookings.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = f.svc.DeleteBooking(ctx, f.buyer, b.ID)
	requireAppError(t, err, http.StatusNotFound)
}

func TestReplaceBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.CreateBooking(ctx, f.buyer, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Time = "03:00 PM"
	in.Services = []models.BookingLineItem{{Name: "Inspection", Price: 40, Duration: "45"}}
	in.TotalPrice = price(40)

	updated, err := f.svc.ReplaceBooking(ctx, f.buyer, b.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "03:00 PM", updated.Time)
	assert.Equal(t, 40.0, updated.TotalPrice)

	in.ServiceProvider = "another"
	_, err = f.svc.ReplaceBooking(ctx, f.buyer, b.ID, in)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestGetBooking_PopulatesContacts(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.CreateBooking(context.Background(), f.buyer, validInput())
	require.NoError(t, err)

	detail, err := f.svc.GetBooking(context.Background(), f.owner, b.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.UserInfo)
	require.NotNil(t, detail.ProviderInfo)
	assert.Equal(t, "Buyer", detail.UserInfo.Name)
	assert.Equal(t, "Quick Lube", detail.ProviderInfo.Name)
}

func TestPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catalog := memory.NewServiceRepo()
	svc := &models.Service{ID: "svc-1", ServiceProvider: "prov-1", Name: "Full service", Price: 50, Duration: "60"}
	require.NoError(t, catalog.Create(ctx, svc))

	in := validInput()
	in.Services = []models.BookingLineItem{{Name: svc.Name, Price: svc.Price, Duration: svc.Duration}}
	in.TotalPrice = price(50)
	b, err := f.svc.CreateBooking(ctx, f.buyer, in)
	require.NoError(t, err)

	_, err = catalog.UpdateSet(ctx, svc.ID, map[string]any{"price": 75.0})
	require.NoError(t, err)

	stored, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.Services[0].Price)
}

func TestListBookings_Scope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := access.Actor{ID: "other", Role: models.RoleUser}

	_, err := f.svc.CreateBooking(ctx, f.buyer, validInput())
	require.NoError(t, err)
	in := validInput()
	in.Time = "11:00 AM"
	_, err = f.svc.CreateBooking(ctx, other, in)
	require.NoError(t, err)

	mine, page, err := f.svc.ListBookings(ctx, f.buyer, repository.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, int64(1), page.Total)

	asOwner, _, err := f.svc.ListBookings(ctx, f.owner, repository.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, asOwner, 2)

	none, _, err := f.svc.ListBookings(ctx, f.stranger, repository.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, none)

	all, _, err := f.svc.ListBookings(ctx, f.admin, repository.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListProviderBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateBooking(ctx, f.buyer, validInput())
	require.NoError(t, err)

	list, err := f.svc.ListProviderBookings(ctx, f.owner, "prov-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.ListProviderBookings(ctx, access.Actor{ID: "p2", Role: models.RoleServiceProvider}, "prov-1")
	requireAppError(t, err, http.StatusForbidden)

	_, err = f.svc.ListProviderBookings(ctx, f.admin, "missing")
	requireAppError(t, err, http.StatusNotFound)
}

func TestBuildSlotGrid_IgnoresReleasedStatuses(t *testing.T) {
	grid := BuildSlotGrid([]models.Booking{
		{Time: "09:00 AM", Status: models.BookingCompleted},
		{Time: "09:00 AM", Status: models.BookingCancelled},
		{Time: "04:00 PM", Status: models.BookingConfirmed},
	})
	require.Len(t, grid, 8)
	assert.False(t, grid[0].IsBooked)
	assert.True(t, grid[7].IsBooked)
}
