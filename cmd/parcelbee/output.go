package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/service/auth"
	"parcelbee-client/internal/service/lifecycle"
	"parcelbee-client/internal/session"
)

const timeLayout = "2006-01-02 15:04"

func printAuth(w io.Writer, res auth.Result) {
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
	fmt.Fprintf(w, "Signed in as %s <%s> (%s)\n", res.User.Name, res.User.Email, res.User.Role)
}

func printClaims(w io.Writer, c session.Claims) {
	fmt.Fprintf(w, "User %d <%s> (%s)\n", c.UserID, c.Email, c.Role)
	if !c.ExpiresAt.IsZero() {
		state := "valid until"
		if c.Expired(time.Now()) {
			state = "expired at"
		}
		fmt.Fprintf(w, "Token %s %s\n", state, c.ExpiresAt.Local().Format(timeLayout))
	}
}

func price(p *int64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("₹%d", *p)
}

func printDeliveries(w io.Writer, ds []domain.Delivery) {
	if len(ds) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tSTATUS\tPICKUP\tDROP\tKG\tPRICE\tCREATED")
	for _, d := range ds {
		created := "-"
		if !d.CreatedAt.IsZero() {
			created = d.CreatedAt.Local().Format(timeLayout)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%g\t%s\t%s\n",
			d.ID, d.Status.Label(), d.PickupAddress, d.DropAddress, d.Weight, price(d.EstimatedPrice), created)
	}
	_ = tw.Flush()
}

func printView(w io.Writer, v lifecycle.View) {
	if v.Role == domain.RolePartner {
		fmt.Fprintf(w, "Available (%d)\n", len(v.Available))
		printDeliveries(w, v.Available)
	}
	fmt.Fprintf(w, "Active (%d)\n", len(v.Active))
	printDeliveries(w, v.Active)
	fmt.Fprintf(w, "Past (%d)\n", len(v.Past))
	printDeliveries(w, v.Past)
}

func printDelivery(w io.Writer, d domain.Delivery) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", d.ID)
	fmt.Fprintf(tw, "Status:\t%s\n", d.Status.Label())
	fmt.Fprintf(tw, "Pickup:\t%s\n", d.PickupAddress)
	fmt.Fprintf(tw, "Drop:\t%s\n", d.DropAddress)
	fmt.Fprintf(tw, "Weight:\t%g kg\n", d.Weight)
	fmt.Fprintf(tw, "Price:\t%s\n", price(d.EstimatedPrice))
	if d.PartnerName != "" {
		fmt.Fprintf(tw, "Partner:\t%s\n", d.PartnerName)
	}
	_ = tw.Flush()
}

func printEstimate(w io.Writer, e domain.Estimate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Distance:\t%.2f km\n", e.DistanceKm)
	fmt.Fprintf(tw, "Base fee:\t₹ %g\n", e.BaseFee)
	fmt.Fprintf(tw, "Distance fee:\t₹ %g\n", e.DistanceFee)
	fmt.Fprintf(tw, "Weight fee:\t₹ %g\n", e.WeightFee)
	fmt.Fprintf(tw, "Estimated price:\t₹%d (₹%d - ₹%d)\n", e.Total, e.MinRange, e.MaxRange)
	fmt.Fprintf(tw, "Source:\t%s\n", e.Source)
	_ = tw.Flush()
}
