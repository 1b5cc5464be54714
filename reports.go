package main

import (
	"context"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/subscription-tracker/internal"
	"github.com/spf13/cobra"
)

// FilterParams select which subscriptions a command works on.
type FilterParams struct {
	Show      string `descr:"Which subscriptions to include" alts:"all,active,inactive" strict:"true" default:"all"`
	Search    string `descr:"Case-insensitive search in name and description" optional:"true"`
	Category  string `descr:"Only this category" optional:"true"`
	Frequency string `descr:"Only this billing frequency" alts:"weekly,monthly,quarterly,yearly" strict:"true" optional:"true"`
}

func (p FilterParams) apply(subs []internal.Subscription) []internal.Subscription {
	subs = internal.Filter(subs, internal.SubscriptionFilter{
		Query:           p.Search,
		Category:        p.Category,
		Frequency:       internal.BillingFrequency(p.Frequency),
		IncludeInactive: p.Show != "active",
	})
	if p.Show == "inactive" {
		subs = internal.FilterInactive(subs)
	}
	return subs
}

type ListParams struct {
	GlobalParams
	OutputParams
	FilterParams
	Sort  string `descr:"Sort field" alts:"name,amount,monthly,next" strict:"true" default:"name"`
	Order string `descr:"Sort direction" alts:"asc,desc" strict:"true" default:"asc"`
}

func listCmd(ctx context.Context) boa.CmdT[ListParams] {
	return boa.CmdT[ListParams]{
		Use:   "list",
		Short: "List subscriptions",
		RunFunc: func(params *ListParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			subs, err := svc.List(ctx)
			if err != nil {
				fail(err)
			}
			subs = params.FilterParams.apply(subs)
			internal.SortSubscriptions(subs, params.Sort, params.Order == "desc")

			if params.Output == "json" {
				if err := internal.PrintSubscriptionsJSON(os.Stdout, subs, app.Currency); err != nil {
					fail(err)
				}
				return
			}
			internal.PrintSubscriptionsTable(os.Stdout, subs, app.OutputOptions(svc.Now()))
		},
	}
}

type DashboardParams struct {
	GlobalParams
	OutputParams
}

func dashboardCmd(ctx context.Context) boa.CmdT[DashboardParams] {
	return boa.CmdT[DashboardParams]{
		Use:   "dashboard",
		Short: "Show spending totals, categories and upcoming payments",
		RunFunc: func(params *DashboardParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			subs, err := svc.List(ctx)
			if err != nil {
				fail(err)
			}
			now := svc.Now()
			summary := internal.Summarize(subs, now, app.Config.SummaryOptions())

			if params.Output == "json" {
				if err := internal.WriteJSONValue(os.Stdout, summary); err != nil {
					fail(err)
				}
				return
			}
			internal.PrintDashboard(os.Stdout, summary, app.OutputOptions(now))
		},
	}
}

type UpcomingParams struct {
	GlobalParams
	OutputParams
	Limit int `descr:"Maximum number of payments (default from config)" optional:"true"`
	Days  int `descr:"Only payments due within this many days; 0 lists the next payments regardless of date" optional:"true"`
}

func upcomingCmd(ctx context.Context) boa.CmdT[UpcomingParams] {
	return boa.CmdT[UpcomingParams]{
		Use:   "upcoming",
		Short: "List the next payments, most urgent first",
		RunFunc: func(params *UpcomingParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			subs, err := svc.List(ctx)
			if err != nil {
				fail(err)
			}
			limit := params.Limit
			if limit <= 0 {
				limit = app.Config.UpcomingLimit
			}
			now := svc.Now()
			payments := internal.UpcomingPayments(subs, now, limit)
			if params.Days > 0 {
				var within []internal.UpcomingPayment
				for _, p := range payments {
					if p.DaysUntil < params.Days {
						within = append(within, p)
					}
				}
				payments = within
			}

			if params.Output == "json" {
				if payments == nil {
					payments = []internal.UpcomingPayment{}
				}
				if err := internal.WriteJSONValue(os.Stdout, payments); err != nil {
					fail(err)
				}
				return
			}
			internal.PrintUpcomingTable(os.Stdout, payments, app.OutputOptions(now))
		},
	}
}

type CategoriesParams struct {
	GlobalParams
	OutputParams
	Available bool `descr:"List the categories offered when adding instead of spending per category" optional:"true"`
}

func categoriesCmd(ctx context.Context) boa.CmdT[CategoriesParams] {
	return boa.CmdT[CategoriesParams]{
		Use:   "categories",
		Short: "Show monthly spending per category",
		RunFunc: func(params *CategoriesParams, _ *cobra.Command, _ []string) {
			app, svc := openService(ctx, params.GlobalParams)
			defer app.Close()

			subs, err := svc.List(ctx)
			if err != nil {
				fail(err)
			}

			if params.Available {
				used := internal.Categories(subs)
				available := internal.AvailableCategories(append(app.Config.AvailableCategories(), used...))
				if params.Output == "json" {
					if err := internal.WriteJSONValue(os.Stdout, available); err != nil {
						fail(err)
					}
					return
				}
				internal.PrintCategoryList(os.Stdout, available, used)
				return
			}

			totals := internal.ByCategory(subs)
			if params.Output == "json" {
				if totals == nil {
					totals = []internal.CategoryTotal{}
				}
				if err := internal.WriteJSONValue(os.Stdout, totals); err != nil {
					fail(err)
				}
				return
			}
			internal.PrintCategoriesTable(os.Stdout, totals, app.OutputOptions(svc.Now()))
		},
	}
}
