package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/t-ega/whatsapp-cloud-sdk/configx"
	"github.com/t-ega/whatsapp-cloud-sdk/logx"
	"github.com/t-ega/whatsapp-cloud-sdk/whatsapp"
)

var (
	envFile       string
	accessToken   string
	phoneNumberID string
	apiVersion    string
	verifyToken   string
	port          int
	path          string
	echo          bool
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		logx.Fatal("%v", err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "whatsapp-webhook",
		Short: "WhatsApp Cloud API webhook receiver",
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file")
	root.AddCommand(newServeCommand())
	return root
}

func newServeCommand() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		RunE:  runServe,
	}
	serve.Flags().StringVar(&accessToken, "access-token", "", "Cloud API bearer token (overrides CLOUD_API_ACCESS_TOKEN)")
	serve.Flags().StringVar(&phoneNumberID, "phone-number-id", "", "sending phone number id (overrides WA_PHONE_NUMBER_ID)")
	serve.Flags().StringVar(&apiVersion, "api-version", "", "Graph API version (overrides WA_VERSION)")
	serve.Flags().StringVar(&verifyToken, "verify-token", "", "webhook verify token (overrides WA_VERIFY_TOKEN)")
	serve.Flags().IntVar(&port, "port", 0, "listen port (overrides WA_PORT)")
	serve.Flags().StringVar(&path, "path", "", "webhook route (overrides WA_WEBHOOK_PATH)")
	serve.Flags().BoolVar(&echo, "echo", false, "reply to text messages with their own body")
	return serve
}

// resolve prefers an explicit flag value over the configured one
func resolve(flagValue string, cfg configx.Config, key string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Get(key).AsString()
}

func runServe(cmd *cobra.Command, args []string) error {
	builder := configx.NewBuilder().
		WithDefaults(map[string]string{
			"WA_PORT":         "8080",
			"WA_WEBHOOK_PATH": "/webhook",
		}).
		FromDotEnv(envFile).
		FromEnv("")

	// Keys satisfied by a flag are no longer required from the environment
	var required []string
	if accessToken == "" {
		required = append(required, "CLOUD_API_ACCESS_TOKEN")
	}
	if phoneNumberID == "" {
		required = append(required, "WA_PHONE_NUMBER_ID")
	}
	if verifyToken == "" {
		required = append(required, "WA_VERIFY_TOKEN")
	}

	cfg, err := builder.Require(required...).Build()
	if err != nil {
		return err
	}

	bot, err := whatsapp.NewBot(whatsapp.Config{
		AccessToken:   resolve(accessToken, cfg, "CLOUD_API_ACCESS_TOKEN"),
		PhoneNumberID: resolve(phoneNumberID, cfg, "WA_PHONE_NUMBER_ID"),
		APIVersion:    resolve(apiVersion, cfg, "WA_VERSION"),
		HTTPTimeout:   cfg.Get("WA_HTTP_TIMEOUT").AsDurationDefault(10 * time.Second),
	})
	if err != nil {
		return err
	}

	if path == "" {
		path = cfg.Get("WA_WEBHOOK_PATH").AsString()
	}
	if port == 0 {
		port = cfg.Get("WA_PORT").AsInt()
	}

	server, err := whatsapp.NewServer(
		bot,
		resolve(verifyToken, cfg, "WA_VERIFY_TOKEN"),
		handleMessage,
		whatsapp.WithWebhookPath(path),
		whatsapp.WithDedupe(5*time.Minute),
	)
	if err != nil {
		return err
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		logx.Info("Shutting down")
		if err := server.Shutdown(); err != nil {
			logx.Error("Shutdown failed: %v", err)
		}
	}()

	return server.Listen(port)
}

func handleMessage(c *fiber.Ctx, msg *whatsapp.Message) error {
	switch msg.Type {
	case whatsapp.TypeText:
		if msg.Text == nil {
			logx.Warn("Text message %s arrived without a body", msg.ID)
			return nil
		}
		logx.Info("Text from %s (%s): %s", msg.From, msg.ProfileName, msg.Text.Body)
		if echo {
			_, err := msg.ReplyText(c.UserContext(), msg.Text.Body)
			return err
		}
	case whatsapp.TypeLocation:
		if msg.Location == nil {
			return nil
		}
		logx.Info("Location from %s: %f,%f", msg.From, msg.Location.Latitude, msg.Location.Longitude)
	default:
		logx.Info("%s message from %s", msg.Type, msg.From)
	}
	return nil
}
