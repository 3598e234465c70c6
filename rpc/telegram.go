package rpc

import (
	"context"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/biz"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/render"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const maxTextLen = 4096

// messenger is the part of *bot.Bot used for replies.
type messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

type TelegramOpts struct {
	Token       string
	Proxy       string
	Prefix      string // query command, e.g. "!조회"
	HelpCommand string
	AdminChat   int64
}

/*
Telegram
chat gateway: receives query commands, runs each one in its own goroutine through the
orchestrator and replies in the originating chat.
*/
type Telegram struct {
	bot    *bot.Bot
	msgr   messenger
	orch   *biz.Orchestrator
	opts   TelegramOpts
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewTelegram(opts TelegramOpts, orch *biz.Orchestrator) (*Telegram, *errs.Error) {
	res := &Telegram{orch: orch, opts: opts}
	b, err_ := bot.New(opts.Token, bot.WithHTTPClient(30*time.Second, newProxyClient(opts.Proxy)),
		bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}))
	if err_ != nil {
		return nil, errs.New(core.ErrBadConfig, err_)
	}
	res.bot = b
	res.msgr = b
	b.RegisterHandler(bot.HandlerTypeMessageText, opts.Prefix, bot.MatchTypePrefix, res.handleQuery)
	if opts.HelpCommand != "" {
		b.RegisterHandler(bot.HandlerTypeMessageText, opts.HelpCommand, bot.MatchTypeExact, res.handleHelp)
	}
	return res, nil
}

func newProxyClient(proxy string) *http.Client {
	client := &http.Client{Timeout: 60 * time.Second}
	if proxy == "" {
		return client
	}
	proxyUrl, err := url.Parse(proxy)
	if err != nil {
		log.Warn("invalid telegram proxy, ignored", zap.String("proxy", proxy), zap.Error(err))
		return client
	}
	client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyUrl)}
	return client
}

// Start polls updates until ctx is done, then waits for running commands.
func (t *Telegram) Start(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)
	log.Info("telegram bot listening", zap.String("prefix", t.opts.Prefix))
	t.bot.Start(ctx)
	t.wg.Wait()
	log.Info("telegram bot stopped")
}

func (t *Telegram) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}

// SendAdmin posts text to the configured admin chat, used by the admin outbox.
func (t *Telegram) SendAdmin(ctx context.Context, text string) error {
	_, err := t.msgr.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    t.opts.AdminChat,
		Text:      "<pre>" + html.EscapeString(truncText(text, maxTextLen-20)) + "</pre>",
		ParseMode: models.ParseModeHTML,
	})
	return err
}

func (t *Telegram) handleQuery(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cmd, ok := t.toCommand(update)
	if !ok {
		return
	}
	ch := &chatChannel{msgr: t.msgr, chatID: update.Message.Chat.ID}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.orch.Handle(ctx, cmd, ch)
	}()
}

func (t *Telegram) handleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	ch := &chatChannel{msgr: t.msgr, chatID: update.Message.Chat.ID}
	if _, err := ch.Send(ctx, biz.HelpText(t.opts.Prefix)); err != nil {
		log.Warn("send help fail", zap.Int64("chat", ch.chatID), zap.Error(err))
	}
}

/*
toCommand
accepts "<prefix>" alone or followed by whitespace, so "!조회abc" is not a query.
*/
func (t *Telegram) toCommand(update *models.Update) (biz.Command, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return biz.Command{}, false
	}
	rest, found := strings.CutPrefix(msg.Text, t.opts.Prefix)
	if !found {
		return biz.Command{}, false
	}
	if rest != "" {
		first, _ := utf8.DecodeRuneInString(rest)
		if !strings.ContainsRune(" \t\n　", first) {
			return biz.Command{}, false
		}
	}
	name := msg.From.Username
	if name == "" {
		name = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	}
	return biz.Command{
		UserID:   strconv.FormatInt(msg.From.ID, 10),
		UserName: name,
		Text:     strings.TrimSpace(rest),
	}, true
}

// chatChannel implements biz.Channel for one telegram chat.
type chatChannel struct {
	msgr   messenger
	chatID int64
}

func (c *chatChannel) Send(ctx context.Context, text string) (*biz.MessageRef, error) {
	msg, err := c.msgr.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    c.chatID,
		Text:      truncText(render.ChatHTML(text), maxTextLen),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return nil, err
	}
	return &biz.MessageRef{ChatID: c.chatID, MessageID: msg.ID}, nil
}

func (c *chatChannel) Edit(ctx context.Context, ref *biz.MessageRef, text string, rep *render.Report) error {
	body := render.ChatHTML(text)
	if rep != nil {
		body = rep.Text()
	}
	_, err := c.msgr.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    ref.ChatID,
		MessageID: ref.MessageID,
		Text:      truncText(body, maxTextLen),
		ParseMode: models.ParseModeHTML,
	})
	return err
}

// truncText cuts text to at most maxLen runes.
func truncText(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen-3]) + "..."
}
