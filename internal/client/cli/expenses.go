package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/services"
)

// today is a test seam for the default expense date.
var today = func() string { return time.Now().Format(time.DateOnly) }

// List prints the user's expenses followed by their total.
func (a *App) List(ctx context.Context) error {
	items, err := a.expenseService.List(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		a.printf("No expenses yet\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tTITLE")
	for _, e := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\n", e.ID, e.Date, e.Category, e.Amount, e.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	a.printf("Total: %.2f\n", models.TotalAmount(items))
	return nil
}

// Add prompts for a new expense and creates it.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		return services.ErrNotAuthenticated
	}

	in, err := a.readExpense(models.ExpenseInput{Category: "other", Date: today()})
	if err != nil {
		return err
	}

	e, err := a.expenseService.Create(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Added expense %d\n", e.ID)
	return nil
}

// Edit prompts for new values of the expense with the given id. Empty
// answers keep the current values.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	items, err := a.expenseService.List(ctx)
	if err != nil {
		return err
	}
	current, ok := findExpense(items, id)
	if !ok {
		a.printf("Expense %d not found\n", id)
		return nil
	}

	in, err := a.readExpense(models.ExpenseInput{
		Title:    current.Title,
		Amount:   current.Amount,
		Category: current.Category,
		Date:     current.Date,
	})
	if err != nil {
		return err
	}

	if _, err := a.expenseService.Update(ctx, id, in); err != nil {
		return err
	}
	a.printf("Updated expense %d\n", id)
	return nil
}

// Delete removes the expense with the given id after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if !a.isLoggedIn() {
		return services.ErrNotAuthenticated
	}

	ok, err := GetConfirm(a.reader, fmt.Sprintf("Delete expense %d?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := a.expenseService.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("Deleted expense %d\n", id)
	return nil
}

// readExpense asks for every field, offering the values of def.
func (a *App) readExpense(def models.ExpenseInput) (models.ExpenseInput, error) {
	var in models.ExpenseInput
	var err error

	if def.Title == "" {
		in.Title, err = getSimpleText(a.reader, "Title", a.out)
	} else {
		in.Title, err = GetTextWithDefault(a.reader, "Title", def.Title, a.out)
	}
	if err != nil {
		return in, err
	}

	var amount string
	if def.Amount == 0 {
		amount, err = getSimpleText(a.reader, "Amount", a.out)
	} else {
		amount, err = GetTextWithDefault(a.reader, "Amount", strconv.FormatFloat(def.Amount, 'f', -1, 64), a.out)
	}
	if err != nil {
		return in, err
	}
	in.Amount, err = strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return in, fmt.Errorf("%w: amount %q", services.ErrInvalidInput, amount)
	}

	in.Category, err = GetTextWithDefault(a.reader, "Category ("+strings.Join(models.Categories, ", ")+")", def.Category, a.out)
	if err != nil {
		return in, err
	}
	in.Category = strings.ToLower(in.Category)

	in.Date, err = GetTextWithDefault(a.reader, "Date (YYYY-MM-DD)", def.Date, a.out)
	if err != nil {
		return in, err
	}
	return in, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected one expense id", services.ErrInvalidInput)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad expense id %q", services.ErrInvalidInput, args[0])
	}
	return id, nil
}

func findExpense(items []models.Expense, id int64) (models.Expense, bool) {
	for _, e := range items {
		if e.ID == id {
			return e, true
		}
	}
	return models.Expense{}, false
}
