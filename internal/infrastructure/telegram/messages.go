package telegram

import (
	"fmt"
	"strings"
	"time"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/biztime"
)

const (
	msgWelcome = "👋 *Token Gate Bot*\n\n" +
		"I keep this group exclusive to token holders.\n\n" +
		"*Member commands:*\n" +
		"/linkwallet <address> - Link your Solana wallet\n" +
		"/check - Re-check your token balance\n" +
		"/status - Show your access status\n" +
		"/tiers - List the configured tiers\n\n" +
		"*Admin commands:*\n" +
		"/setup - Configure token gating for this group\n" +
		"/disable - Pause gating for this group\n" +
		"/admin\\_status - Show group overview"

	msgGroupOnly      = "This command only works inside a group."
	msgAdminOnly      = "Only group admins can use this command."
	msgNotConfigured  = "This group is not configured yet. An admin can run /setup."
	msgGatingDisabled = "Token gating is currently disabled for this group."
	msgNoTiers        = "No tiers are configured for this group. An admin can run /setup."
	msgInternalError  = "Something went wrong, please try again later."

	msgLinkUsage = "Usage: /linkwallet <your Solana wallet address>"
	msgLinkInvalidWallet = "That does not look like a valid Solana address. " +
		"Please double-check and try again."

	msgCheckNoWallet  = "You have not linked a wallet yet. Use /linkwallet <address> first."
	msgStatusNoWallet = "You have not linked a wallet yet. Use /linkwallet <address> first."

	msgSetupPromptMint = "🛠 *Group Setup* (1/3)\n\n" +
		"Send me the *token mint address* (or NFT collection address) that gates this group.\n\n" +
		"Type /cancel at any time to abort."
	msgSetupInvalidMint = "That does not look like a valid Solana address. " +
		"Please send the token mint address again."
	msgSetupPromptTierCount = "🛠 *Group Setup* (2/3)\n\n" +
		"How many tiers do you want? (1-5)"
	msgSetupInvalidTierCount = "Please send a number between 1 and 5."
	msgSetupInvalidAmount    = "Please send a whole number of tokens (0 or more)."
	msgSetupInvalidName      = "Please send a tier name (up to 50 characters)."
	msgSetupConfirmHint      = "Type *confirm* to save this configuration, or /cancel to abort."
	msgSetupSaved            = "✅ Group configured! Members can now link wallets with /linkwallet."
	msgSetupCancelled        = "Setup cancelled."
	msgNothingToCancel       = "There is no active setup to cancel."

	msgDisabled = "Token gating disabled. Run /setup to re-enable it."
)

// truncateAddress shortens a Solana address for display
func truncateAddress(addr string) string {
	if len(addr) <= 16 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-8:]
}

func formatBalance(balance float64) string {
	s := fmt.Sprintf("%.4f", balance)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func msgSetupPromptTierAmount(index, total int) string {
	return fmt.Sprintf("🛠 *Group Setup* (3/3)\n\nTier %d of %d: what is the *minimum token amount* for this tier?", index, total)
}

func msgSetupPromptTierName(index, total int) string {
	return fmt.Sprintf("Tier %d of %d: what should this tier be *called*? (e.g. Whale, Holder)", index, total)
}

func msgSetupSummary(tokenMint string, tiers []tierDraft) string {
	var b strings.Builder
	b.WriteString("*Review configuration:*\n\n")
	fmt.Fprintf(&b, "Token: `%s`\n\n*Tiers:*\n", tokenMint)
	for _, tier := range tiers {
		fmt.Fprintf(&b, "• %s: %d+ tokens\n", tier.name, tier.minAmount)
	}
	b.WriteString("\n")
	b.WriteString(msgSetupConfirmHint)
	return b.String()
}

func msgLinkGranted(resp *dto.LinkWalletResponse, wallet string) string {
	return fmt.Sprintf("✅ *Access granted!*\n\nWallet: `%s`\nTier: *%s*\nBalance: %s",
		truncateAddress(wallet), resp.TierName, formatBalance(resp.Balance))
}

func msgLinkRejected(resp *dto.LinkWalletResponse, wallet string) string {
	return fmt.Sprintf("❌ *Insufficient balance.*\n\nWallet: `%s`\nBalance: %s\n\nUse /tiers to see the required amounts.",
		truncateAddress(wallet), formatBalance(resp.Balance))
}

func msgCheckResult(resp *dto.VerificationResponse) string {
	switch {
	case resp.Status == gate.StatusRemoved || resp.Status == gate.StatusNoHolder:
		return fmt.Sprintf("❌ *You no longer qualify.*\n\nBalance: %s\n\nTop up and run /check again.",
			formatBalance(resp.Balance))
	case resp.Changed:
		return fmt.Sprintf("✅ *Status updated.*\n\nTier: *%s*\nBalance: %s",
			resp.Status, formatBalance(resp.Balance))
	default:
		return fmt.Sprintf("✅ *You still qualify.*\n\nTier: *%s*\nBalance: %s",
			resp.Status, formatBalance(resp.Balance))
	}
}

func msgMemberStatus(resp *dto.MemberStatusResponse) string {
	status := resp.Status
	switch status {
	case "":
		status = "not checked yet"
	case gate.StatusNoHolder:
		status = "no access (insufficient balance)"
	case gate.StatusRemoved:
		status = "removed"
	}

	lastChecked := "never"
	if resp.LastCheckedAt != nil {
		lastChecked = biztime.FormatInBizTimezone(*resp.LastCheckedAt, time.DateTime)
	}

	return fmt.Sprintf("*Your status:*\n\nWallet: `%s`\nStatus: %s\nBalance: %s\nLast checked: %s",
		truncateAddress(resp.WalletAddress), status, formatBalance(resp.Balance), lastChecked)
}

func msgTierList(tiers []dto.TierResponse) string {
	if len(tiers) == 0 {
		return msgNoTiers
	}
	var b strings.Builder
	b.WriteString("*Tiers:*\n\n")
	for i, tier := range tiers {
		fmt.Fprintf(&b, "%d. *%s*: %d+ tokens\n", i+1, tier.Name, tier.MinAmount)
	}
	return b.String()
}

func msgNewMemberWelcome(firstName string) string {
	return fmt.Sprintf("Welcome, %s! 👋\n\nThis group is token-gated. Link your wallet with /linkwallet <address> to verify your access.",
		firstName)
}

func msgGroupOverview(resp *dto.GroupStatusResponse) string {
	state := "enabled"
	if !resp.Active {
		state = "disabled"
	}

	var b strings.Builder
	b.WriteString("*Group overview:*\n\n")
	fmt.Fprintf(&b, "Gating: %s\n", state)
	fmt.Fprintf(&b, "Token: `%s`\n", truncateAddress(resp.TokenMint))
	fmt.Fprintf(&b, "Members: %d (%d holding a tier)\n", resp.MemberCount, resp.HolderCount)
	fmt.Fprintf(&b, "Tiers: %d\n", len(resp.Tiers))
	if len(resp.RecentVerifications) > 0 {
		b.WriteString("\n*Recent checks:*\n")
		for _, e := range resp.RecentVerifications {
			fmt.Fprintf(&b, "• user %d: %s (%s)\n", e.UserID, e.Action, e.Status)
		}
	}
	return b.String()
}
