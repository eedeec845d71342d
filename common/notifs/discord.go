package notifs

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
	"github.com/disgoorg/snowflake/v2"

	"github.com/qpair/go-qpair/common"
	"github.com/qpair/go-qpair/models"
)

type DiscordColor int

const (
	DiscordColor_None  = iota
	DiscordColor_Info  = 3447003
	DiscordColor_Alert = 16711712
)

const DiscordPacing = 2 * time.Second

const (
	Env_AlertWebhook = "DISCORD_ALERT_WEBHOOK"
	Env_TestWebhook  = "DISCORD_TEST_WEBHOOK"
)

// DiscordHandler posts provisioning failures to Discord webhooks. Unset
// webhook URLs disable the corresponding channel, so an empty environment
// yields a no-op notifier.
type DiscordHandler struct {
	alertWebhook webhook.Client
	testWebhook  webhook.Client
	logger       models.Logger
}

func NewDiscordHandler(logger models.Logger) (models.Notifier, error) {
	if a, err := parseDiscordWebhookUrl(Env_AlertWebhook); err != nil {
		return nil, err
	} else if t, err := parseDiscordWebhookUrl(Env_TestWebhook); err != nil {
		return nil, err
	} else {
		return &DiscordHandler{a, t, logger}, nil
	}
}

func parseDiscordWebhookUrl(urlEnv string) (webhook.Client, error) {
	webhookUrl := os.Getenv(urlEnv)
	if len(webhookUrl) > 0 {
		if parsedUrl, err := url.Parse(webhookUrl); err != nil {
			return nil, err
		} else {
			urlParts := strings.Split(parsedUrl.Path, "/")
			if id, err := snowflake.Parse(urlParts[len(urlParts)-2]); err != nil {
				return nil, err
			} else {
				return webhook.New(id, urlParts[len(urlParts)-1]), nil
			}
		}
	}
	return nil, nil
}

func (d DiscordHandler) SendAlert(title, desc, content string) error {
	if d.alertWebhook != nil {
		return d.sendNotif(d.alertWebhook, title, desc, content, DiscordColor_Alert)
	}
	// Duplicate notifications to the test channel, if configured.
	if d.testWebhook != nil {
		return d.sendNotif(d.testWebhook, title, desc, content, DiscordColor_Alert)
	}
	return nil
}

func (d DiscordHandler) sendNotif(wh webhook.Client, title, desc, content string, color DiscordColor) error {
	messageEmbed := discord.Embed{
		Title:       title,
		Description: desc + "\n\n" + content,
		Type:        discord.EmbedTypeRich,
		Color:       int(color),
	}
	_, err := wh.CreateMessage(discord.NewWebhookMessageCreateBuilder().
		SetEmbeds(messageEmbed).
		SetUsername(common.ServiceName).
		Build(),
		rest.WithDelay(DiscordPacing),
	)
	if err != nil {
		d.logger.Errorf("sendNotif: error sending discord notification: %v, %s, %s", err, title, desc)
		return err
	}
	return nil
}
