package Outbreak

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"AgroLens/Models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named in-memory database so every pooled connection sees the same data.
	db, err := Models.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	return db
}

// latOffsetForKM returns the latitude offset in degrees that puts a point
// the given number of kilometers due north of the equator.
func latOffsetForKM(km float64) float64 {
	return km / 6371.0 * 180 / math.Pi
}

func ptr[T any](v T) *T { return &v }

func farmer(db *gorm.DB, t *testing.T, email string, lat, lon float64, crop string) Models.User {
	t.Helper()
	user := Models.User{
		Name:        email,
		Email:       email,
		Latitude:    &lat,
		Longitude:   &lon,
		CurrentCrop: &crop,
		City:        "Bangalore",
		Country:     "India",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

type recordingAdvisor struct {
	calls  []string
	failOn string
}

func (a *recordingAdvisor) PreventiveMeasures(_ context.Context, disease, crop, location string) (string, error) {
	a.calls = append(a.calls, crop)
	if crop == a.failOn {
		return "", fmt.Errorf("advisor rate limited (429)")
	}
	return fmt.Sprintf("Protect your %s from %s near %s", crop, disease, location), nil
}

func (a *recordingAdvisor) GrowthGuide(_ context.Context, crop, location string) (string, error) {
	return "guide", nil
}

type recordingPusher struct {
	tokens []string
}

func (p *recordingPusher) Send(_ context.Context, token, _, _ string, _ map[string]string) error {
	p.tokens = append(p.tokens, token)
	return nil
}

func TestNotifyRadiusFilter(t *testing.T) {
	db := testDB(t)

	reporter := farmer(db, t, "reporter@agrolens.app", 0, 0, "Rice")
	near := farmer(db, t, "near@agrolens.app", latOffsetForKM(3), 0, "Rice")
	// Just inside the 5 km boundary.
	boundary := farmer(db, t, "boundary@agrolens.app", latOffsetForKM(4.99), 0, "Wheat")
	justOutside := farmer(db, t, "outside@agrolens.app", latOffsetForKM(5.1), 0, "Rice")
	far := farmer(db, t, "far@agrolens.app", latOffsetForKM(10), 0, "Rice")

	notifier := NewNotifier(db, &recordingAdvisor{}, nil)
	result, err := notifier.Notify(context.Background(), NewReport{
		Disease:         "Leaf Rust",
		Latitude:        0,
		Longitude:       0,
		ReportingUserID: reporter.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.NotifiedCount)

	var notifications []Models.Notification
	require.NoError(t, db.Order("user_id").Find(&notifications).Error)
	require.Len(t, notifications, 2)
	assert.Equal(t, near.ID, notifications[0].UserID)
	assert.Equal(t, boundary.ID, notifications[1].UserID)

	for _, n := range notifications {
		assert.LessOrEqual(t, n.Distance, AlertRadiusKM)
		assert.Equal(t, result.ReportID, n.ReportID)
		assert.Equal(t, "Leaf Rust", n.Disease)
		assert.False(t, n.Read)
	}

	for _, excluded := range []uint{reporter.ID, justOutside.ID, far.ID} {
		var count int64
		db.Model(&Models.Notification{}).Where("user_id = ?", excluded).Count(&count)
		assert.Zero(t, count)
	}
}

func TestNotifyReporterNeverNotified(t *testing.T) {
	db := testDB(t)

	// Reporter is at the exact outbreak location, well within radius.
	reporter := farmer(db, t, "self@agrolens.app", 0, 0, "Rice")

	notifier := NewNotifier(db, nil, nil)
	result, err := notifier.Notify(context.Background(), NewReport{
		Disease:         "Blight",
		Latitude:        0,
		Longitude:       0,
		ReportingUserID: reporter.ID,
	})
	require.NoError(t, err)
	assert.Zero(t, result.NotifiedCount)
}

func TestNotifySkipsUsersMissingCropOrLocation(t *testing.T) {
	db := testDB(t)

	noCrop := Models.User{
		Email:     "nocrop@agrolens.app",
		Latitude:  ptr(0.001),
		Longitude: ptr(0.0),
	}
	require.NoError(t, db.Create(&noCrop).Error)

	noLocation := Models.User{
		Email:       "noloc@agrolens.app",
		CurrentCrop: ptr("Rice"),
	}
	require.NoError(t, db.Create(&noLocation).Error)

	notifier := NewNotifier(db, nil, nil)
	result, err := notifier.Notify(context.Background(), NewReport{
		Disease:         "Leaf Spot",
		Latitude:        0,
		Longitude:       0,
		ReportingUserID: 999,
	})
	require.NoError(t, err)
	assert.Zero(t, result.NotifiedCount)
}

func TestNotifyAdvisorFailureSkipsOnlyThatRecipient(t *testing.T) {
	db := testDB(t)

	farmer(db, t, "rice@agrolens.app", latOffsetForKM(1), 0, "Rice")
	farmer(db, t, "wheat@agrolens.app", latOffsetForKM(2), 0, "Wheat")

	advisor := &recordingAdvisor{failOn: "Rice"}
	notifier := NewNotifier(db, advisor, nil)
	result, err := notifier.Notify(context.Background(), NewReport{
		Disease:         "Leaf Rust",
		Latitude:        0,
		Longitude:       0,
		ReportingUserID: 999,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotifiedCount)
	assert.Len(t, advisor.calls, 2)

	var notifications []Models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].PreventiveMeasures, "Wheat")
}

func TestNotifyNilAdvisorUsesGenericAdvice(t *testing.T) {
	db := testDB(t)
	farmer(db, t, "near@agrolens.app", latOffsetForKM(1), 0, "Rice")

	notifier := NewNotifier(db, nil, nil)
	result, err := notifier.Notify(context.Background(), NewReport{
		Disease: "Blight", ReportingUserID: 999,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotifiedCount)

	var notification Models.Notification
	require.NoError(t, db.First(&notification).Error)
	assert.Equal(t, genericAdvice, notification.PreventiveMeasures)
}

func TestNotifyPushesToTokenHolders(t *testing.T) {
	db := testDB(t)

	withToken := farmer(db, t, "token@agrolens.app", latOffsetForKM(1), 0, "Rice")
	require.NoError(t, db.Model(&withToken).Update("fcm_token", "device-token-1").Error)
	farmer(db, t, "notoken@agrolens.app", latOffsetForKM(2), 0, "Rice")

	pusher := &recordingPusher{}
	notifier := NewNotifier(db, nil, pusher)
	result, err := notifier.Notify(context.Background(), NewReport{
		Disease: "Blight", ReportingUserID: 999,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.NotifiedCount)
	assert.Equal(t, []string{"device-token-1"}, pusher.tokens)
}

func TestNotifyFailsBeforeScanWhenReportWriteFails(t *testing.T) {
	db := testDB(t)
	farmer(db, t, "near@agrolens.app", latOffsetForKM(1), 0, "Rice")

	require.NoError(t, db.Migrator().DropTable(&Models.DiseaseReport{}))

	notifier := NewNotifier(db, nil, nil)
	_, err := notifier.Notify(context.Background(), NewReport{
		Disease: "Blight", ReportingUserID: 999,
	})
	require.Error(t, err)

	var count int64
	db.Model(&Models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestNotifyRepeatedCallsDuplicateNotifications(t *testing.T) {
	// Repeated submissions of the same sighting intentionally produce
	// duplicate alerts; there is no idempotence key.
	db := testDB(t)
	farmer(db, t, "near@agrolens.app", latOffsetForKM(1), 0, "Rice")

	notifier := NewNotifier(db, nil, nil)
	report := NewReport{Disease: "Blight", ReportingUserID: 999}

	for i := 0; i < 2; i++ {
		result, err := notifier.Notify(context.Background(), report)
		require.NoError(t, err)
		assert.Equal(t, 1, result.NotifiedCount)
	}

	var count int64
	db.Model(&Models.Notification{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestNotifyEndToEndScenario(t *testing.T) {
	db := testDB(t)

	u1 := farmer(db, t, "u1@agrolens.app", 12.97, 77.59, "Rice")
	u2 := farmer(db, t, "u2@agrolens.app", 12.99, 77.60, "Rice")
	u3 := farmer(db, t, "u3@agrolens.app", 20.0, 80.0, "Wheat")

	notifier := NewNotifier(db, &recordingAdvisor{}, nil)
	result, err := notifier.Notify(context.Background(), NewReport{
		Disease:         "Leaf Rust",
		Latitude:        12.97,
		Longitude:       77.59,
		ReportingUserID: u1.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotifiedCount)

	var notifications []Models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, u2.ID, notifications[0].UserID)
	assert.InDelta(t, 2.4, notifications[0].Distance, 0.3)

	var count int64
	db.Model(&Models.Notification{}).Where("user_id = ?", u3.ID).Count(&count)
	assert.Zero(t, count)
}
