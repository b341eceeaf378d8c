package cli

import (
	"context"
	"fmt"
	"os"
)

// Heartbeat performs the explicit check-in that resets the inactivity
// clock.
func (a *App) Heartbeat(ctx context.Context) error {
	at, err := a.api.Heartbeat(ctx)
	if err != nil {
		fmt.Printf("Check-in failed: %v\n", err)
		return err
	}
	fmt.Printf("Checked in. Last heartbeat: %s\n", at)
	return nil
}

// Status prints the account's timer configuration and current state.
func (a *App) Status(ctx context.Context) error {
	acc, err := a.api.GetAccount(ctx)
	if err != nil {
		fmt.Printf("Status failed: %v\n", err)
		return err
	}

	fmt.Printf("Email:              %s\n", acc.Email)
	fmt.Printf("Heartbeat interval: %d days\n", acc.HeartbeatIntervalDays)
	fmt.Printf("Grace period:       %d days\n", acc.GracePeriodDays)
	fmt.Printf("Last heartbeat:     %s\n", acc.LastHeartbeatAt)
	if acc.TransmissionTriggered {
		printlnFn("Transmission: TRIGGERED")
	}
	return nil
}

// Settings updates the heartbeat interval and grace period.
func (a *App) Settings(ctx context.Context) error {
	interval, err := GetInt(a.reader, "Heartbeat interval (days)", os.Stdout)
	if err != nil {
		fmt.Printf("Invalid input: %v\n", err)
		return err
	}

	grace, err := GetInt(a.reader, "Grace period (days)", os.Stdout)
	if err != nil {
		fmt.Printf("Invalid input: %v\n", err)
		return err
	}

	if err := a.api.UpdateSettings(ctx, interval, grace); err != nil {
		fmt.Printf("Update failed: %v\n", err)
		return err
	}

	printlnFn("Settings updated.")
	return nil
}
