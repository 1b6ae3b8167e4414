package main

import (
	"bufio"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
)

func chatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Send stdin lines; lines starting with '/' are control commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			lines := make(chan string)
			go func() {
				defer close(lines)
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					lines <- scanner.Text()
				}
			}()

			for {
				select {
				case <-s.ctx.Done():
					return nil
				case line, ok := <-lines:
					if !ok {
						return nil
					}
					if err := sendLine(s.client, line); err != nil {
						if protocol.KindOf(err) == protocol.KindPrecondition {
							log.WithError(err).Warn("Message not sent")
							continue
						}
						return err
					}
				}
			}
		},
	}
}

type sender interface {
	Send(text string) error
	SendControl(command, arg1, arg2 string) error
}

func sendLine(s sender, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if cmd, ok := parseCommand(line); ok {
		return s.SendControl(cmd.Name, cmd.Arg1, cmd.Arg2)
	}
	return s.Send(line)
}

// parseCommand splits "/name arg1 arg2" into a control message.
func parseCommand(line string) (protocol.ControlMessage, bool) {
	if !strings.HasPrefix(line, "/") {
		return protocol.ControlMessage{}, false
	}
	fields := strings.Fields(line)
	msg := protocol.ControlMessage{Name: fields[0]}
	if len(fields) > 1 {
		msg.Arg1 = fields[1]
	}
	if len(fields) > 2 {
		msg.Arg2 = strings.Join(fields[2:], " ")
	}
	return msg, true
}
