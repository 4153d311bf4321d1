package Push

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client sends Firebase Cloud Messaging pushes to individual device tokens.
// A nil *Client is a valid no-push configuration.
type Client struct {
	messaging *messaging.Client
}

// NewClient initializes Firebase once at startup from a service account file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	opt := option.WithCredentialsFile(credentialsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}

	log.Println("Firebase initialized successfully")
	return &Client{messaging: client}, nil
}

// Send delivers one notification to one device token.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if c == nil || c.messaging == nil {
		return fmt.Errorf("push client not configured")
	}

	message := &messaging.Message{
		Token:        token,
		Data:         data,
		Notification: &messaging.Notification{Title: title, Body: body},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Icon:  "disease_alert_icon",
				Color: "#D9534F",
				Sound: "default",
			},
			Priority: "high",
		},
	}

	response, err := c.messaging.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending Firebase message: %w", err)
	}

	log.Printf("Successfully sent Firebase notification: %s", response)
	return nil
}
