package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/application/gate/usecases"
	"tokengate/internal/domain/gate"
	"tokengate/internal/infrastructure/solana"
	"tokengate/internal/shared/logger"
)

const maxTierCount = 5

// BotAPI is the subset of bot operations the command handler needs
type BotAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	IsChatAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}

// GroupConfigurer saves a full group configuration
type GroupConfigurer interface {
	Execute(ctx context.Context, cmd usecases.SetupGroupCommand) error
}

// GroupDeactivator pauses gating for a chat
type GroupDeactivator interface {
	Execute(ctx context.Context, chatID int64) error
}

// WalletLinker links a wallet after an immediate balance check
type WalletLinker interface {
	Execute(ctx context.Context, cmd usecases.LinkWalletCommand) (*dto.LinkWalletResponse, error)
}

// MemberChecker re-verifies one member on demand
type MemberChecker interface {
	Execute(ctx context.Context, cmd usecases.CheckMemberCommand) (*dto.VerificationResponse, error)
}

// MemberStatusReader returns a member's stored access state
type MemberStatusReader interface {
	Execute(ctx context.Context, userID, chatID int64) (*dto.MemberStatusResponse, error)
}

// TierLister returns a group's tier ladder
type TierLister interface {
	Execute(ctx context.Context, chatID int64) ([]dto.TierResponse, error)
}

// GroupStatusReader builds the admin overview of a group
type GroupStatusReader interface {
	Execute(ctx context.Context, chatID int64) (*dto.GroupStatusResponse, error)
}

// GateUseCases bundles the application operations behind the bot commands
type GateUseCases struct {
	SetupGroup      GroupConfigurer
	DeactivateGroup GroupDeactivator
	LinkWallet      WalletLinker
	CheckMember     MemberChecker
	MemberStatus    MemberStatusReader
	GroupTiers      TierLister
	GroupStatus     GroupStatusReader
}

type setupStep int

const (
	stepTokenMint setupStep = iota
	stepTierCount
	stepTierAmount
	stepTierName
	stepConfirm
)

type tierDraft struct {
	minAmount uint64
	name      string
}

// setupWizard tracks one admin's in-progress /setup conversation.
// Keyed by user ID, so an admin can only configure one group at a time.
type setupWizard struct {
	chatID    int64
	step      setupStep
	tokenMint string
	tierTotal int
	tiers     []tierDraft
}

// CommandHandler routes Telegram updates to gate operations
type CommandHandler struct {
	bot      BotAPI
	gate     GateUseCases
	logger   logger.Interface
	wizardMu sync.Mutex
	wizards  map[int64]*setupWizard
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(bot BotAPI, gate GateUseCases, logger logger.Interface) *CommandHandler {
	return &CommandHandler{
		bot:     bot,
		gate:    gate,
		logger:  logger,
		wizards: make(map[int64]*setupWizard),
	}
}

// HandleUpdate processes a single Telegram update
func (h *CommandHandler) HandleUpdate(ctx context.Context, update *Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	if len(msg.NewChatMembers) > 0 {
		return h.handleNewMembers(ctx, msg)
	}
	if msg.From == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	command, arg := splitCommand(text)

	// An in-progress setup consumes plain messages from its owner.
	// Commands other than /cancel are ignored until the wizard ends.
	if wizard := h.getWizard(msg.From.ID); wizard != nil && wizard.chatID == msg.Chat.ID {
		if command == "/cancel" {
			return h.handleCancel(ctx, msg)
		}
		if strings.HasPrefix(text, "/") {
			return nil
		}
		return h.handleWizardInput(ctx, msg, wizard, text)
	}

	switch command {
	case "/start", "/help":
		return h.bot.SendMessage(ctx, msg.Chat.ID, msgWelcome)
	case "/setup":
		return h.handleSetup(ctx, msg)
	case "/cancel":
		return h.handleCancel(ctx, msg)
	case "/linkwallet":
		return h.handleLinkWallet(ctx, msg, arg)
	case "/check":
		return h.handleCheck(ctx, msg)
	case "/status":
		return h.handleStatus(ctx, msg)
	case "/tiers":
		return h.handleTiers(ctx, msg)
	case "/disable":
		return h.handleDisable(ctx, msg)
	case "/admin_status":
		return h.handleAdminStatus(ctx, msg)
	default:
		return nil
	}
}

// splitCommand extracts the command (with any @botname suffix stripped)
// and the remaining argument text
func splitCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	command := text
	arg := ""
	if idx := strings.IndexAny(text, " \t"); idx > 0 {
		command = text[:idx]
		arg = strings.TrimSpace(text[idx+1:])
	}
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return strings.ToLower(command), arg
}

func (h *CommandHandler) getWizard(userID int64) *setupWizard {
	h.wizardMu.Lock()
	defer h.wizardMu.Unlock()
	return h.wizards[userID]
}

func (h *CommandHandler) setWizard(userID int64, w *setupWizard) {
	h.wizardMu.Lock()
	defer h.wizardMu.Unlock()
	h.wizards[userID] = w
}

func (h *CommandHandler) clearWizard(userID int64) {
	h.wizardMu.Lock()
	defer h.wizardMu.Unlock()
	delete(h.wizards, userID)
}

func (h *CommandHandler) requireGroupAdmin(ctx context.Context, msg *Message) (bool, error) {
	if !msg.Chat.IsGroup() {
		return false, h.bot.SendMessage(ctx, msg.Chat.ID, msgGroupOnly)
	}
	isAdmin, err := h.bot.IsChatAdmin(ctx, msg.Chat.ID, msg.From.ID)
	if err != nil {
		h.logger.Errorw("failed to check chat admin",
			"chat_id", msg.Chat.ID,
			"user_id", msg.From.ID,
			"error", err,
		)
		return false, h.bot.SendMessage(ctx, msg.Chat.ID, msgInternalError)
	}
	if !isAdmin {
		return false, h.bot.SendMessage(ctx, msg.Chat.ID, msgAdminOnly)
	}
	return true, nil
}

func (h *CommandHandler) handleSetup(ctx context.Context, msg *Message) error {
	ok, err := h.requireGroupAdmin(ctx, msg)
	if !ok {
		return err
	}

	h.setWizard(msg.From.ID, &setupWizard{
		chatID: msg.Chat.ID,
		step:   stepTokenMint,
	})
	return h.bot.SendMessage(ctx, msg.Chat.ID, msgSetupPromptMint)
}

func (h *CommandHandler) handleCancel(ctx context.Context, msg *Message) error {
	if h.getWizard(msg.From.ID) == nil {
		return h.bot.SendMessage(ctx, msg.Chat.ID, msgNothingToCancel)
	}
	h.clearWizard(msg.From.ID)
	return h.bot.SendMessage(ctx, msg.Chat.ID, msgSetupCancelled)
}

func (h *CommandHandler) handleWizardInput(ctx context.Context, msg *Message, wizard *setupWizard, text string) error {
	chatID := msg.Chat.ID

	switch wizard.step {
	case stepTokenMint:
		if !solana.IsValidAddress(text) {
			return h.bot.SendMessage(ctx, chatID, msgSetupInvalidMint)
		}
		wizard.tokenMint = text
		wizard.step = stepTierCount
		return h.bot.SendMessage(ctx, chatID, msgSetupPromptTierCount)

	case stepTierCount:
		count, err := strconv.Atoi(text)
		if err != nil || count < 1 || count > maxTierCount {
			return h.bot.SendMessage(ctx, chatID, msgSetupInvalidTierCount)
		}
		wizard.tierTotal = count
		wizard.step = stepTierAmount
		return h.bot.SendMessage(ctx, chatID, msgSetupPromptTierAmount(1, count))

	case stepTierAmount:
		// Zero is allowed: a tier with minimum 0 acts as a catch-all for
		// any linked wallet.
		amount, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return h.bot.SendMessage(ctx, chatID, msgSetupInvalidAmount)
		}
		wizard.tiers = append(wizard.tiers, tierDraft{minAmount: amount})
		wizard.step = stepTierName
		return h.bot.SendMessage(ctx, chatID, msgSetupPromptTierName(len(wizard.tiers), wizard.tierTotal))

	case stepTierName:
		if text == "" || len(text) > 50 {
			return h.bot.SendMessage(ctx, chatID, msgSetupInvalidName)
		}
		wizard.tiers[len(wizard.tiers)-1].name = text
		if len(wizard.tiers) < wizard.tierTotal {
			wizard.step = stepTierAmount
			return h.bot.SendMessage(ctx, chatID, msgSetupPromptTierAmount(len(wizard.tiers)+1, wizard.tierTotal))
		}
		wizard.step = stepConfirm
		return h.bot.SendMessage(ctx, chatID, msgSetupSummary(wizard.tokenMint, wizard.tiers))

	case stepConfirm:
		if !strings.EqualFold(text, "confirm") {
			return h.bot.SendMessage(ctx, chatID, msgSetupConfirmHint)
		}
		return h.finishSetup(ctx, msg, wizard)
	}

	return nil
}

func (h *CommandHandler) finishSetup(ctx context.Context, msg *Message, wizard *setupWizard) error {
	specs := make([]usecases.TierSpec, 0, len(wizard.tiers))
	for _, tier := range wizard.tiers {
		specs = append(specs, usecases.TierSpec{
			MinAmount: tier.minAmount,
			Name:      tier.name,
		})
	}

	err := h.gate.SetupGroup.Execute(ctx, usecases.SetupGroupCommand{
		ChatID:    wizard.chatID,
		AdminID:   msg.From.ID,
		TokenMint: wizard.tokenMint,
		Tiers:     specs,
	})
	h.clearWizard(msg.From.ID)
	if err != nil {
		h.logger.Errorw("failed to save group setup",
			"chat_id", wizard.chatID,
			"admin_id", msg.From.ID,
			"error", err,
		)
		return h.bot.SendMessage(ctx, msg.Chat.ID, msgInternalError)
	}

	return h.bot.SendMessage(ctx, msg.Chat.ID, msgSetupSaved)
}

func (h *CommandHandler) handleLinkWallet(ctx context.Context, msg *Message, wallet string) error {
	chatID := msg.Chat.ID
	if !msg.Chat.IsGroup() {
		return h.bot.SendMessage(ctx, chatID, msgGroupOnly)
	}
	if wallet == "" {
		return h.bot.SendMessage(ctx, chatID, msgLinkUsage)
	}
	if !solana.IsValidAddress(wallet) {
		return h.bot.SendMessage(ctx, chatID, msgLinkInvalidWallet)
	}

	resp, err := h.gate.LinkWallet.Execute(ctx, usecases.LinkWalletCommand{
		UserID:        msg.From.ID,
		ChatID:        chatID,
		WalletAddress: wallet,
	})
	if err != nil {
		return h.replyGateError(ctx, chatID, msg.From.ID, "link wallet", err)
	}

	if !resp.Granted {
		return h.bot.SendMessage(ctx, chatID, msgLinkRejected(resp, wallet))
	}
	return h.bot.SendMessage(ctx, chatID, msgLinkGranted(resp, wallet))
}

func (h *CommandHandler) handleCheck(ctx context.Context, msg *Message) error {
	chatID := msg.Chat.ID
	if !msg.Chat.IsGroup() {
		return h.bot.SendMessage(ctx, chatID, msgGroupOnly)
	}

	resp, err := h.gate.CheckMember.Execute(ctx, usecases.CheckMemberCommand{
		UserID: msg.From.ID,
		ChatID: chatID,
	})
	if err != nil {
		if errors.Is(err, gate.ErrMembershipNotFound) {
			return h.bot.SendMessage(ctx, chatID, msgCheckNoWallet)
		}
		return h.replyGateError(ctx, chatID, msg.From.ID, "check member", err)
	}

	return h.bot.SendMessage(ctx, chatID, msgCheckResult(resp))
}

func (h *CommandHandler) handleStatus(ctx context.Context, msg *Message) error {
	chatID := msg.Chat.ID

	resp, err := h.gate.MemberStatus.Execute(ctx, msg.From.ID, chatID)
	if err != nil {
		if errors.Is(err, gate.ErrMembershipNotFound) {
			return h.bot.SendMessage(ctx, chatID, msgStatusNoWallet)
		}
		return h.replyGateError(ctx, chatID, msg.From.ID, "member status", err)
	}

	return h.bot.SendMessage(ctx, chatID, msgMemberStatus(resp))
}

func (h *CommandHandler) handleTiers(ctx context.Context, msg *Message) error {
	chatID := msg.Chat.ID

	tiers, err := h.gate.GroupTiers.Execute(ctx, chatID)
	if err != nil {
		return h.replyGateError(ctx, chatID, msg.From.ID, "list tiers", err)
	}

	return h.bot.SendMessage(ctx, chatID, msgTierList(tiers))
}

func (h *CommandHandler) handleDisable(ctx context.Context, msg *Message) error {
	ok, err := h.requireGroupAdmin(ctx, msg)
	if !ok {
		return err
	}

	if err := h.gate.DeactivateGroup.Execute(ctx, msg.Chat.ID); err != nil {
		return h.replyGateError(ctx, msg.Chat.ID, msg.From.ID, "disable group", err)
	}
	return h.bot.SendMessage(ctx, msg.Chat.ID, msgDisabled)
}

func (h *CommandHandler) handleAdminStatus(ctx context.Context, msg *Message) error {
	ok, err := h.requireGroupAdmin(ctx, msg)
	if !ok {
		return err
	}

	resp, err := h.gate.GroupStatus.Execute(ctx, msg.Chat.ID)
	if err != nil {
		return h.replyGateError(ctx, msg.Chat.ID, msg.From.ID, "group status", err)
	}
	return h.bot.SendMessage(ctx, msg.Chat.ID, msgGroupOverview(resp))
}

func (h *CommandHandler) handleNewMembers(ctx context.Context, msg *Message) error {
	if !msg.Chat.IsGroup() {
		return nil
	}
	for _, member := range msg.NewChatMembers {
		if member.IsBot {
			continue
		}
		if err := h.bot.SendMessage(ctx, msg.Chat.ID, msgNewMemberWelcome(member.FirstName)); err != nil {
			return err
		}
	}
	return nil
}

// replyGateError maps known domain errors to user-facing messages and
// logs everything else
func (h *CommandHandler) replyGateError(ctx context.Context, chatID, userID int64, op string, err error) error {
	switch {
	case errors.Is(err, gate.ErrGroupNotFound):
		return h.bot.SendMessage(ctx, chatID, msgNotConfigured)
	case errors.Is(err, gate.ErrGroupInactive):
		return h.bot.SendMessage(ctx, chatID, msgGatingDisabled)
	case errors.Is(err, gate.ErrNoTiersConfigured):
		return h.bot.SendMessage(ctx, chatID, msgNoTiers)
	case errors.Is(err, gate.ErrInvalidWalletAddress), errors.Is(err, gate.ErrInvalidMintAddress):
		return h.bot.SendMessage(ctx, chatID, msgLinkInvalidWallet)
	}

	h.logger.Errorw("command failed",
		"operation", op,
		"chat_id", chatID,
		"user_id", userID,
		"error", err,
	)
	return h.bot.SendMessage(ctx, chatID, msgInternalError)
}
