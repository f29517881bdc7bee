package credit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"
	"lookframe-server/modules/common/config"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Credit 클라이언트 생성
func NewClient(supabaseClient *supabase.Client) *Client {
	return &Client{
		supabase: supabaseClient,
	}
}

// DeductForGeneration - 생성 1건에 대한 크레딧 차감 및 트랜잭션 기록
func (c *Client) DeductForGeneration(ctx context.Context, userID string, assetID string) error {
	cfg := config.GetConfig()
	price := cfg.ImagePerPrice

	log.Printf("💰 Deducting credits: User=%s, Amount=%d", userID, price)

	// 1. 현재 크레딧 조회
	var members []struct {
		Credit int `json:"credit"`
	}

	data, _, err := c.supabase.From("studio_members").
		Select("credit", "", false).
		Eq("member_id", userID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to fetch user credits: %w", err)
	}

	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("failed to parse member data: %w", err)
	}

	if len(members) == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	currentCredits := members[0].Credit
	newBalance := currentCredits - price

	log.Printf("💰 Credit balance: %d → %d (-%d)", currentCredits, newBalance, price)

	// 2. 크레딧 차감
	_, _, err = c.supabase.From("studio_members").
		Update(map[string]interface{}{
			"credit": newBalance,
		}, "", "").
		Eq("member_id", userID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to deduct credits: %w", err)
	}

	// 3. 트랜잭션 기록
	transactionData := map[string]interface{}{
		"user_id":          userID,
		"transaction_type": "DEDUCT",
		"amount":           -price,
		"balance_after":    newBalance,
		"description":      "Generated product photo",
		"asset_id":         assetID,
	}

	_, _, err = c.supabase.From("studio_credit_log").
		Insert(transactionData, false, "", "", "").
		Execute()

	if err != nil {
		log.Printf("⚠️  Failed to record transaction for asset %s: %v", assetID, err)
	}

	log.Printf("✅ Credits deducted successfully: %d credits from user %s", price, userID)
	return nil
}

// HasSufficientCredit - 생성 전 잔액 확인
func (c *Client) HasSufficientCredit(userID string) (bool, error) {
	cfg := config.GetConfig()

	var members []struct {
		Credit int `json:"credit"`
	}

	data, _, err := c.supabase.From("studio_members").
		Select("credit", "", false).
		Eq("member_id", userID).
		Execute()

	if err != nil {
		return false, fmt.Errorf("failed to fetch user credits: %w", err)
	}

	if err := json.Unmarshal(data, &members); err != nil {
		return false, fmt.Errorf("failed to parse member data: %w", err)
	}

	if len(members) == 0 {
		return false, fmt.Errorf("user not found: %s", userID)
	}

	return members[0].Credit >= cfg.ImagePerPrice, nil
}
