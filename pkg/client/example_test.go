package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/LoohanZinho/enem2-sub003/pkg/client"
)

// Example demonstrates basic usage of the ENEM Pro client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "https://app.enempro.com",
	})

	ctx := context.Background()

	// Login; the session cookie is captured automatically
	loginResp, err := c.Login(ctx, "user@example.com", "password")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Logged in as: %s\n", loginResp.User.Email)

	// Check the current entitlement
	status, err := c.AccessStatus(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Access state: %s\n", status.State)
}

// ExampleSession demonstrates the stateful session wrapper
func ExampleSession() {
	c := client.NewClient(client.Config{
		BaseURL: "https://app.enempro.com",
	})
	session := client.NewSession(c)

	ctx := context.Background()

	// Resolve any existing cookie before rendering
	if err := session.Init(ctx); err != nil {
		log.Fatal(err)
	}

	if session.Current() == nil {
		dest, err := session.Login(ctx, "user@example.com", "password")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Navigate to: %s\n", dest)
	}
}
