package main

import (
	"context"
	"fmt"
	"time"
)

func (cli *commandLine) remind(within time.Duration) error {
	n, err := cli.calSvc.SendReminders(context.Background(), within)
	if err != nil {
		return err
	}
	fmt.Printf("reminded %d events\n", n)
	return nil
}
