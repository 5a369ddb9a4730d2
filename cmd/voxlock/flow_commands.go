package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"voxlock/internal/device"
	"voxlock/internal/flow"
	"voxlock/internal/services"
)

func newSignupCommand(ctx *commandContext) *cobra.Command {
	var samples []string
	var phrase string

	cmd := &cobra.Command{
		Use:   "signup <identity>",
		Short: "Enroll an identity from two voice samples and a spoken phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := strings.TrimSpace(args[0])
			if identity == "" {
				return errors.New("identity is required")
			}
			if len(samples) != 2 {
				return errors.New("signup needs exactly two --sample recordings")
			}
			if strings.TrimSpace(phrase) == "" {
				return errors.New("signup needs a --phrase recording")
			}

			return withFlow(cmd, ctx, append(samples, phrase), func(runCtx context.Context, mgr *flow.Manager) error {
				if err := mgr.Signup(runCtx, identity); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %s\n", identity)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&samples, "sample", "s", nil, "Voice sample WAV file (repeat twice)")
	cmd.Flags().StringVarP(&phrase, "phrase", "p", "", "Spoken secret phrase WAV file")
	return cmd
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var recordings []string

	cmd := &cobra.Command{
		Use:   "login <identity>",
		Short: "Authenticate an identity by voice and secret phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := strings.TrimSpace(args[0])
			if identity == "" {
				return errors.New("identity is required")
			}
			if len(recordings) == 0 {
				return errors.New("login needs at least one --recording")
			}

			out := cmd.OutOrStdout()
			return withFlow(cmd, ctx, recordings, func(runCtx context.Context, mgr *flow.Manager) error {
				result, err := mgr.Login(runCtx, identity)
				switch {
				case errors.Is(err, services.ErrNotFound):
					fmt.Fprintf(out, "No enrollment found for %s\n", identity)
					return err
				case errors.Is(err, services.ErrLockout):
					fmt.Fprintf(out, "Access denied: locked out after %d attempts\n", result.Attempts)
					if result.EvidencePath != "" {
						fmt.Fprintf(out, "Intruder still: %s\n", result.EvidencePath)
					}
					return err
				case err != nil:
					return err
				}
				fmt.Fprintf(out, "Access granted for %s (attempt %d)\n", identity, result.Attempts)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&recordings, "recording", "r", nil, "WAV recordings consumed in order (voice, then phrase, per attempt)")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var samples []string
	var phrase string

	cmd := &cobra.Command{
		Use:   "reset <identity>",
		Short: "Re-enroll an identity after verifying a one-time code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := strings.TrimSpace(args[0])
			if identity == "" {
				return errors.New("identity is required")
			}
			if len(samples) != 2 {
				return errors.New("reset needs exactly two --sample recordings")
			}
			if strings.TrimSpace(phrase) == "" {
				return errors.New("reset needs a --phrase recording")
			}

			prompt := codePrompt(cmd.InOrStdin(), cmd.OutOrStdout())
			return withFlow(cmd, ctx, append(samples, phrase), func(runCtx context.Context, mgr *flow.Manager) error {
				if err := mgr.Reset(runCtx, identity, prompt); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Credentials replaced for %s\n", identity)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&samples, "sample", "s", nil, "Voice sample WAV file (repeat twice)")
	cmd.Flags().StringVarP(&phrase, "phrase", "p", "", "Spoken secret phrase WAV file")
	return cmd
}

// withFlow assembles the manager, takes the cross-process device lock, and
// runs fn under a signal-aware context.
func withFlow(cmd *cobra.Command, ctx *commandContext, recordings []string, fn func(context.Context, *flow.Manager) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	store, err := ctx.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	observer := progressObserver(cmd.ErrOrStderr())
	mgr, err := ctx.newManager(store, recordings, observer)
	if err != nil {
		return err
	}

	lock := device.NewLock(cfg)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(runCtx, mgr)
}

// progressObserver narrates flow transitions on stderr so stdout stays
// reserved for verdicts.
func progressObserver(w io.Writer) flow.Observer {
	return flow.ObserverFunc(func(event flow.Event) {
		switch event.State {
		case flow.StateIdle:
			return
		case flow.StateRecordingVoice, flow.StateMatching, flow.StateVerifyingPhrase:
			fmt.Fprintf(w, "[%s] attempt %d\n", event.State, event.Attempt)
		default:
			fmt.Fprintf(w, "[%s]\n", event.State)
		}
	})
}

func codePrompt(in io.Reader, out io.Writer) func(context.Context) (string, error) {
	reader := bufio.NewReader(in)
	return func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(out, "Enter the reset code: ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		code := strings.TrimSpace(line)
		if code == "" {
			return "", errors.New("no code entered")
		}
		return code, nil
	}
}
