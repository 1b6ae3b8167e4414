package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
)

func runCmd(opts *options) *cobra.Command {
	var (
		message  string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect and send a label message periodically",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			if interval <= 0 {
				interval = s.cfg.SendInterval()
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-s.ctx.Done():
					log.Info("Shutdown signal received.")
					return nil
				case <-ticker.C:
					if !s.client.IsConnected() {
						log.Info("Session ended by the server.")
						return nil
					}
					if err := sendTick(s.client, message); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&message, "message", "Hello World", "Text sent on every tick.")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between sends (defaults to sendIntervalSeconds).")
	return cmd
}

// sendTick sends one periodic message. A message that cannot be built yet,
// such as before the server has assigned an id, is skipped.
func sendTick(s sender, message string) error {
	err := s.Send(message)
	if protocol.KindOf(err) == protocol.KindPrecondition {
		log.WithError(err).Warn("Message not sent")
		return nil
	}
	return err
}
