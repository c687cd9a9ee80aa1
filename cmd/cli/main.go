// Command cli is the interactive front-end: a menu loop for adding people
// and expenses, viewing balances and settling debts in one session.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/split"
	"github.com/mmynk/splitledger/pkg/logging"
)

type cli struct {
	svc    *service.LedgerService
	format money.Formatter
	in     *bufio.Reader
}

func main() {
	logging.SetupWithLevel(slog.LevelWarn)
	cfg := config.Load()

	// Auto-create stays off so missing people trigger a confirmation
	// prompt instead of appearing silently.
	led := ledger.New(ledger.WithAutoCreate(false))
	app := &cli{
		svc:    service.New(led),
		format: money.NewFormatter(cfg.Currency),
		in:     bufio.NewReader(os.Stdin),
	}
	app.run()
}

func (c *cli) run() {
	fmt.Println(strings.Repeat("=", 52))
	fmt.Println("           EXPENSE SPLITTING CALCULATOR")
	fmt.Println(strings.Repeat("=", 52))
	fmt.Println("Split expenses fairly among friends and settle up.")

	for {
		c.printMenu()
		switch c.prompt("Enter your choice (1-8): ") {
		case "1":
			c.addPerson()
		case "2":
			c.addExpense()
		case "3":
			c.viewPeople()
		case "4":
			c.viewExpenses()
		case "5":
			c.viewBalances()
		case "6":
			c.showSummary()
		case "7":
			c.settle()
		case "8", "q", "exit":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please enter a number between 1 and 8.")
		}
	}
}

func (c *cli) printMenu() {
	fmt.Println("\n" + strings.Repeat("-", 36))
	fmt.Println("1. Add a person")
	fmt.Println("2. Add an expense")
	fmt.Println("3. View all people")
	fmt.Println("4. View all expenses")
	fmt.Println("5. View current balances")
	fmt.Println("6. Show summary")
	fmt.Println("7. Settle debts")
	fmt.Println("8. Exit")
	fmt.Println(strings.Repeat("-", 36))
}

func (c *cli) prompt(label string) string {
	fmt.Print(label)
	line, err := c.in.ReadString('\n')
	if err != nil {
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}
	return strings.TrimSpace(line)
}

// promptAmount re-prompts until the input parses as a valid amount.
func (c *cli) promptAmount(label string) decimal.Decimal {
	for {
		amount, err := money.ParseAmount(c.prompt(label))
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		return amount
	}
}

func (c *cli) addPerson() {
	name := c.prompt("Enter the person's name: ")
	if _, err := c.svc.AddPerson(name); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Added %s to the ledger.\n", ledger.NormalizeName(name))
}

func (c *cli) addExpense() {
	payer := c.prompt("Who paid? ")
	amount := c.promptAmount("How much? ")

	raw := c.prompt("Who shares this expense? (comma-separated names) ")
	var participants []string
	for _, name := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			participants = append(participants, trimmed)
		}
	}
	if len(participants) == 0 {
		fmt.Println("Error: participants list cannot be empty")
		return
	}

	input := service.ExpenseInput{
		Payer:        payer,
		Amount:       amount,
		Participants: participants,
	}

	fmt.Println("Split method: 1=equal, 2=weighted, 3=percentage, 4=exact")
	switch c.prompt("Choose (1-4): ") {
	case "1":
		input.Strategy = split.KindEqual
	case "2":
		input.Strategy = split.KindWeighted
		input.Weights = c.promptPerParticipant(participants, "Weight for %s: ")
	case "3":
		input.Strategy = split.KindPercentage
		input.Percentages = c.promptPerParticipant(participants, "Percentage for %s: ")
	case "4":
		input.Strategy = split.KindExact
		input.ExactAmounts = c.promptPerParticipant(participants, "Exact amount for %s: ")
	default:
		fmt.Println("Invalid split method.")
		return
	}

	for {
		if _, err := c.svc.AddExpense(input); err != nil {
			var lerr *ledger.LookupError
			if errors.As(err, &lerr) && c.confirmCreate(lerr.Key) {
				continue
			}
			fmt.Println("Error:", err)
			return
		}
		break
	}
	fmt.Printf("Recorded %s paid by %s.\n", c.format.Format(amount), ledger.NormalizeName(payer))
}

// promptPerParticipant collects one decimal value per participant,
// re-prompting on unparseable input.
func (c *cli) promptPerParticipant(participants []string, label string) map[string]decimal.Decimal {
	values := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		name := ledger.NormalizeName(p)
		for {
			value, err := decimal.NewFromString(c.prompt(fmt.Sprintf(label, name)))
			if err != nil {
				fmt.Println("Please enter a valid number.")
				continue
			}
			values[name] = value
			break
		}
	}
	return values
}

// confirmCreate offers to create a missing person; returns true if created.
func (c *cli) confirmCreate(name string) bool {
	answer := c.prompt(fmt.Sprintf("Person %q does not exist. Create? (y/n) ", name))
	if strings.ToLower(answer) != "y" {
		return false
	}
	if _, err := c.svc.AddPerson(name); err != nil {
		fmt.Println("Error:", err)
		return false
	}
	return true
}

func (c *cli) viewPeople() {
	people := c.svc.People()
	if len(people) == 0 {
		fmt.Println("No people in ledger.")
		return
	}
	fmt.Println("People:")
	for _, p := range people {
		fmt.Printf("  %s: paid %s, owes %s\n",
			p.Name, c.format.Format(p.TotalPaid), c.format.Format(p.TotalOwed))
	}
}

func (c *cli) viewExpenses() {
	expenses := c.svc.Expenses()
	if len(expenses) == 0 {
		fmt.Println("No expenses recorded.")
		return
	}
	fmt.Println("Expenses:")
	for _, e := range expenses {
		fmt.Println("  " + e.String())
	}
}

func (c *cli) viewBalances() {
	people := c.svc.People()
	if len(people) == 0 {
		fmt.Println("No people in ledger.")
		return
	}
	fmt.Println("Balances:")
	for _, p := range people {
		fmt.Printf("  %s: %s\n", p.Name, c.format.Format(p.Balance()))
	}
}

func (c *cli) showSummary() {
	people := c.svc.People()
	expenses := c.svc.Expenses()
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	fmt.Printf("%d people, %d expenses, %s spent in total.\n",
		len(people), len(expenses), c.format.Format(total))
}

func (c *cli) settle() {
	transactions, err := c.svc.Settle()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(transactions) == 0 {
		fmt.Println("All settled up, nothing to pay.")
		return
	}
	fmt.Println("To settle all debts:")
	for _, t := range transactions {
		fmt.Printf("  %s -> %s: %s\n", t.From, t.To, c.format.Format(t.Amount))
	}
}
