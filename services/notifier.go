// services/notifier.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"spabook-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// Notifier delivers booking and payout lifecycle messages. Delivery is
// best-effort: failures are logged to notification_logs and never bubble
// into the mutating request.
type Notifier struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewNotifier(db *gorm.DB) *Notifier {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &Notifier{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (n *Notifier) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", n.SendBookingReminders)

	c.Start()
	log.Println("Booking reminder scheduler started")
}

// SendBookingReminders messages every customer with a CONFIRMED booking
// starting tomorrow.
func (n *Notifier) SendBookingReminders() {
	log.Println("Starting daily booking reminder processing...")

	now := time.Now()
	from := now.AddDate(0, 0, 1)
	to := now.AddDate(0, 0, 2)

	var bookings []models.Booking
	if err := n.db.
		Where("status = ? AND scheduled_at >= ? AND scheduled_at < ?", models.BookingConfirmed, from, to).
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to fetch upcoming bookings: %v", err)
		return
	}

	for i := range bookings {
		b := &bookings[i]
		var spa models.Spa
		if err := n.db.First(&spa, "id = ?", b.SpaID).Error; err != nil {
			log.Printf("Booking %s: failed to load spa: %v", b.ID, err)
			continue
		}
		message := fmt.Sprintf("Reminder: your booking at %s is tomorrow at %s.",
			spa.Name, b.ScheduledAt.Format("15:04"))
		n.notifyUser(b.CustomerID, &spa, "booking_reminder", message, &b.ID, nil)
	}

	log.Println("Daily booking reminder processing completed")
}

// BookingStatusChanged notifies the customer about a lifecycle event
// (confirmed, cancelled, completed).
func (n *Notifier) BookingStatusChanged(b *models.Booking, event string) {
	var spa models.Spa
	if err := n.db.First(&spa, "id = ?", b.SpaID).Error; err != nil {
		log.Printf("Booking %s: failed to load spa: %v", b.ID, err)
		return
	}

	var message string
	switch event {
	case "booking_confirmed":
		message = fmt.Sprintf("Your booking at %s on %s is confirmed.",
			spa.Name, b.ScheduledAt.Format("Jan 2 15:04"))
	case "booking_cancelled":
		message = fmt.Sprintf("Your booking at %s on %s was cancelled.",
			spa.Name, b.ScheduledAt.Format("Jan 2 15:04"))
	case "booking_completed":
		message = fmt.Sprintf("Thanks for visiting %s! We hope to see you again.", spa.Name)
	default:
		return
	}

	n.notifyUser(b.CustomerID, &spa, event, message, &b.ID, nil)
}

// PayoutReviewed notifies the owner about a payout decision.
func (n *Notifier) PayoutReviewed(p *models.Payout) {
	var message string
	switch p.Status {
	case models.PayoutApproved:
		message = fmt.Sprintf("Your payout request of %.2f was approved.", p.Amount)
	case models.PayoutRejected:
		message = fmt.Sprintf("Your payout request of %.2f was rejected.", p.Amount)
	case models.PayoutCompleted:
		message = fmt.Sprintf("Your payout of %.2f has been transferred.", p.Amount)
	default:
		return
	}
	n.notifyUser(p.OwnerID, nil, "payout_"+strings.ToLower(p.Status), message, nil, &p.ID)
}

func (n *Notifier) notifyUser(userID uuid.UUID, spa *models.Spa, event, message string, bookingID, payoutID *uuid.UUID) {
	var user models.User
	if err := n.db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("Notification %s: failed to load user %s: %v", event, userID, err)
		return
	}
	if user.Phone == "" {
		return
	}

	// Determine channel (WhatsApp if available, else SMS)
	channel := "sms"
	to := user.Phone

	// Use WhatsApp if phone is in E.164 format and the spa opted in
	if strings.HasPrefix(user.Phone, "+") && (spa == nil || spa.WhatsAppNotifications) {
		to = "whatsapp:" + user.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := n.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send %s to %s: %v", event, user.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("%s sent to %s, SID: %s", event, user.Phone, *resp.Sid)
	} else {
		log.Printf("%s sent to %s, but no SID returned", event, user.Phone)
	}

	entry := models.NotificationLog{
		UserID:       userID,
		BookingID:    bookingID,
		PayoutID:     payoutID,
		Event:        event,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := n.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log notification for user %s: %v", userID, err)
	}
}
