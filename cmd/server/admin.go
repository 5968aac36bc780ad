package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rodr499/kardo/internal/server/services"
	"github.com/rodr499/kardo/internal/server/storage"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative commands",
	Long:  "Administrative commands for managing card inventory without going through the HTTP API",
}

var generateCardsCmd = &cobra.Command{
	Use:   "generate-cards",
	Short: "Generate a batch of unclaimed card codes",
	Run:   runGenerateCardsCommand,
}

var listCardsCmd = &cobra.Command{
	Use:   "list-cards",
	Short: "List all cards in inventory",
	Run:   runListCardsCommand,
}

var unclaimCardCmd = &cobra.Command{
	Use:   "unclaim-card",
	Short: "Detach a card from its profile and return it to inventory",
	Run:   runUnclaimCardCommand,
}

var disableCardCmd = &cobra.Command{
	Use:   "disable-card",
	Short: "Disable a card so its code no longer resolves",
	Run:   runDisableCardCommand,
}

var deleteCardCmd = &cobra.Command{
	Use:   "delete-card",
	Short: "Delete a card permanently",
	Run:   runDeleteCardCommand,
}

var assignNfcCmd = &cobra.Command{
	Use:   "assign-nfc",
	Short: "Mark a card's NFC tag as assigned",
	Run: func(cmd *cobra.Command, args []string) {
		runSetNfcCommand(cmd, true)
	},
}

var unassignNfcCmd = &cobra.Command{
	Use:   "unassign-nfc",
	Short: "Mark a card's NFC tag as unassigned",
	Run: func(cmd *cobra.Command, args []string) {
		runSetNfcCommand(cmd, false)
	},
}

func init() {
	generateCardsCmd.Flags().Int("count", 10, "Number of cards to generate (1-1000)")
	generateCardsCmd.Flags().Int("length", 8, "Code length (6-16)")

	unclaimCardCmd.Flags().String("code", "", "Card code (required)")
	unclaimCardCmd.MarkFlagRequired("code")

	disableCardCmd.Flags().String("code", "", "Card code (required)")
	disableCardCmd.MarkFlagRequired("code")

	deleteCardCmd.Flags().String("code", "", "Card code (required)")
	deleteCardCmd.MarkFlagRequired("code")

	assignNfcCmd.Flags().String("code", "", "Card code (required)")
	assignNfcCmd.MarkFlagRequired("code")

	unassignNfcCmd.Flags().String("code", "", "Card code (required)")
	unassignNfcCmd.MarkFlagRequired("code")

	adminCmd.AddCommand(
		generateCardsCmd,
		listCardsCmd,
		unclaimCardCmd,
		disableCardCmd,
		deleteCardCmd,
		assignNfcCmd,
		unassignNfcCmd,
	)
}

// connectCardService opens the database and wires the card service for
// one-shot admin commands. Callers must Close the returned DB.
func connectCardService() (*storage.DB, *services.CardService) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	db, err := storage.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	cardRepo := storage.NewCardRepository(db)
	profileRepo := storage.NewProfileRepository(db)
	generator := services.NewCodeGenerator(cardRepo)

	return db, services.NewCardService(cardRepo, profileRepo, generator, nil)
}

func runGenerateCardsCommand(cmd *cobra.Command, args []string) {
	count, _ := cmd.Flags().GetInt("count")
	length, _ := cmd.Flags().GetInt("length")

	db, cardService := connectCardService()
	defer db.Close()

	ctx := context.Background()

	fmt.Printf("Generating %d card(s) with code length %d...\n", count, length)
	codes, effectiveLength, err := cardService.GenerateCards(ctx, count, length)
	if err != nil {
		log.Fatalf("Failed to generate cards: %v", err)
	}

	fmt.Println(strings.Repeat("=", 40))
	for _, code := range codes {
		fmt.Println(code)
	}
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("✓ Generated %d card(s) (code length %d)\n", len(codes), effectiveLength)
}

func runListCardsCommand(cmd *cobra.Command, args []string) {
	db, cardService := connectCardService()
	defer db.Close()

	ctx := context.Background()

	cards, err := cardService.ListCards(ctx)
	if err != nil {
		log.Fatalf("Failed to list cards: %v", err)
	}

	if len(cards) == 0 {
		fmt.Println("No cards in inventory.")
		return
	}

	fmt.Printf("Cards (%d):\n", len(cards))
	fmt.Println(strings.Repeat("=", 90))
	fmt.Printf("%-18s %-10s %-36s %-6s %-20s\n", "Code", "Status", "Profile", "NFC", "Created")
	fmt.Println(strings.Repeat("=", 90))

	for _, card := range cards {
		profile := "-"
		if card.ProfileID != nil {
			profile = card.ProfileID.String()
		}
		nfc := "No"
		if card.NfcTagAssigned {
			nfc = "Yes"
		}
		fmt.Printf("%-18s %-10s %-36s %-6s %-20s\n",
			card.Code,
			card.Status,
			profile,
			nfc,
			card.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	fmt.Println(strings.Repeat("=", 90))
}

func runUnclaimCardCommand(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")

	db, cardService := connectCardService()
	defer db.Close()

	if err := cardService.UnclaimCard(context.Background(), code); err != nil {
		log.Fatalf("Failed to unclaim card: %v", err)
	}
	fmt.Printf("✓ Card %s returned to inventory\n", strings.ToUpper(code))
}

func runDisableCardCommand(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")

	db, cardService := connectCardService()
	defer db.Close()

	if err := cardService.DisableCard(context.Background(), code); err != nil {
		log.Fatalf("Failed to disable card: %v", err)
	}
	fmt.Printf("✓ Card %s disabled\n", strings.ToUpper(code))
}

func runDeleteCardCommand(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")

	db, cardService := connectCardService()
	defer db.Close()

	// Confirm deletion
	fmt.Printf("Are you sure you want to permanently delete card %s? (yes/no): ", strings.ToUpper(code))
	var confirm string
	fmt.Scanln(&confirm)

	if strings.ToLower(confirm) != "yes" {
		fmt.Println("Deletion cancelled.")
		return
	}

	if err := cardService.DeleteCard(context.Background(), code); err != nil {
		log.Fatalf("Failed to delete card: %v", err)
	}
	fmt.Println("✓ Card deleted")
}

func runSetNfcCommand(cmd *cobra.Command, assigned bool) {
	code, _ := cmd.Flags().GetString("code")

	db, cardService := connectCardService()
	defer db.Close()

	if err := cardService.SetNfcTag(context.Background(), code, assigned); err != nil {
		log.Fatalf("Failed to update NFC tag state: %v", err)
	}
	if assigned {
		fmt.Printf("✓ Card %s marked as NFC-assigned\n", strings.ToUpper(code))
	} else {
		fmt.Printf("✓ Card %s marked as NFC-unassigned\n", strings.ToUpper(code))
	}
}
