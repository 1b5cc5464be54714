package main

import (
	"context"
	"fmt"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/subscription-tracker/internal"
	"github.com/spf13/cobra"
)

type AddParams struct {
	GlobalParams
	Name        string  `descr:"Subscription name" positional:"true"`
	Amount      float64 `descr:"Amount charged per billing period"`
	Currency    string  `descr:"3-letter currency code (default: display currency)" optional:"true"`
	Frequency   string  `descr:"Billing frequency" alts:"weekly,monthly,quarterly,yearly" strict:"true" default:"monthly"`
	NextPayment string  `descr:"Next payment date, YYYY-MM-DD (default: today)" optional:"true"`
	Category    string  `descr:"Category (default: guessed from the name)" optional:"true"`
	Description string  `descr:"Free-form notes" optional:"true"`
	Inactive    bool    `descr:"Add the subscription as paused" optional:"true"`
}

func addCmd(ctx context.Context) boa.CmdT[AddParams] {
	return boa.CmdT[AddParams]{
		Use:   "add",
		Short: "Add a subscription",
		RunFunc: func(params *AddParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			next := today(svc.Now())
			if params.NextPayment != "" {
				var err error
				if next, err = parseDate(params.NextPayment); err != nil {
					fail(err)
				}
			}
			currency := params.Currency
			if currency == "" {
				currency = app.Currency
			}

			sub, err := svc.Add(ctx, internal.SubscriptionDraft{
				Name:             params.Name,
				Amount:           params.Amount,
				Currency:         currency,
				BillingFrequency: internal.BillingFrequency(params.Frequency),
				NextPaymentDate:  next,
				Category:         params.Category,
				Description:      params.Description,
				IsActive:         !params.Inactive,
			})
			if err != nil {
				fail(err)
			}
			money := internal.NewMoneyFormatter(app.Locale)
			fmt.Printf("Added %s (%s) %s %s, %s/month [%s]\n",
				sub.Name, internal.ShortID(sub.ID),
				money.Format(sub.Amount, sub.Currency), sub.BillingFrequency,
				money.Format(sub.MonthlyAmount(), sub.Currency), sub.Category)
		},
	}
}

type EditParams struct {
	GlobalParams
	ID          string  `descr:"Subscription id or unique prefix" positional:"true"`
	Name        string  `descr:"New name" optional:"true"`
	Amount      float64 `descr:"New amount" optional:"true"`
	Currency    string  `descr:"New currency code" optional:"true"`
	Frequency   string  `descr:"New billing frequency" alts:"weekly,monthly,quarterly,yearly" strict:"true" optional:"true"`
	NextPayment string  `descr:"New next payment date, YYYY-MM-DD" optional:"true"`
	Category    string  `descr:"New category" optional:"true"`
	Description string  `descr:"New notes" optional:"true"`
	Active      bool    `descr:"Set active (true) or paused (false)" optional:"true"`
}

func editCmd(ctx context.Context) boa.CmdT[EditParams] {
	return boa.CmdT[EditParams]{
		Use:   "edit",
		Short: "Change fields of a subscription; only given flags are updated",
		RunFunc: func(params *EditParams, cmd *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			changed := cmd.Flags().Changed
			var patch internal.SubscriptionPatch
			if changed("name") {
				patch.Name = &params.Name
			}
			if changed("amount") {
				patch.Amount = &params.Amount
			}
			if changed("currency") {
				patch.Currency = &params.Currency
			}
			if changed("frequency") {
				f := internal.BillingFrequency(params.Frequency)
				patch.BillingFrequency = &f
			}
			if changed("next-payment") {
				next, err := parseDate(params.NextPayment)
				if err != nil {
					fail(err)
				}
				patch.NextPaymentDate = &next
			}
			if changed("category") {
				patch.Category = &params.Category
			}
			if changed("description") {
				patch.Description = &params.Description
			}
			if changed("active") {
				patch.IsActive = &params.Active
			}

			sub, err := svc.Update(ctx, params.ID, patch)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Updated %s (%s)\n", sub.Name, internal.ShortID(sub.ID))
		},
	}
}

type IDParams struct {
	GlobalParams
	ID string `descr:"Subscription id or unique prefix" positional:"true"`
}

func deleteCmd(ctx context.Context) boa.CmdT[IDParams] {
	return boa.CmdT[IDParams]{
		Use:   "delete",
		Short: "Delete a subscription",
		RunFunc: func(params *IDParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			sub, err := svc.Get(ctx, params.ID)
			if err != nil {
				fail(err)
			}
			if err := svc.Delete(ctx, sub.ID); err != nil {
				fail(err)
			}
			fmt.Printf("Deleted %s (%s)\n", sub.Name, internal.ShortID(sub.ID))
		},
	}
}

func toggleCmd(ctx context.Context) boa.CmdT[IDParams] {
	return boa.CmdT[IDParams]{
		Use:   "toggle",
		Short: "Pause an active subscription or resume a paused one",
		RunFunc: func(params *IDParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			sub, err := svc.Get(ctx, params.ID)
			if err != nil {
				fail(err)
			}
			if sub, err = svc.SetActive(ctx, sub.ID, !sub.IsActive); err != nil {
				fail(err)
			}
			fmt.Printf("%s is now %s\n", sub.Name, sub.StatusLabel())
		},
	}
}

func payCmd(ctx context.Context) boa.CmdT[IDParams] {
	return boa.CmdT[IDParams]{
		Use:   "pay",
		Short: "Mark the current payment as done and move to the next billing period",
		RunFunc: func(params *IDParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			sub, err := svc.MarkPaid(ctx, params.ID)
			if err != nil {
				fail(err)
			}
			fmt.Printf("%s: next payment %s\n", sub.Name, sub.NextPaymentDate.Format("2006-01-02"))
		},
	}
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
