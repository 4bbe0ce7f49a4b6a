package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParamRequester issues raw Bot API calls
type ParamRequester interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// SetWebhook registers url with Telegram. A non-empty secret is echoed by
// Telegram in the X-Telegram-Bot-Api-Secret-Token header of every delivery.
func SetWebhook(api ParamRequester, url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	params["allowed_updates"] = `["message","edited_message","callback_query"]`

	resp, err := api.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("set webhook: %s", resp.Description)
	}
	return nil
}

// DeleteWebhook switches the bot back to getUpdates
func DeleteWebhook(api ParamRequester, dropPending bool) error {
	resp, err := api.MakeRequest("deleteWebhook", tgbotapi.Params{
		"drop_pending_updates": strconv.FormatBool(dropPending),
	})
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("delete webhook: %s", resp.Description)
	}
	return nil
}
