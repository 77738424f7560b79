package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/namefreezers/weatherwise/internal/viewer"
)

func printView(w io.Writer, v viewer.View) {
	if v.ErrorBanner != "" {
		fmt.Fprintf(w, "Error: %s\n", v.ErrorBanner)
		return
	}
	if v.Current == nil {
		return
	}

	cur := v.Current
	fmt.Fprintf(w, "%s %s  (updated %s)\n", v.ThemeIcon, cur.City, cur.Updated)
	fmt.Fprintf(w, "  %s, %s, %s\n", cur.Description, cur.Temp, cur.FeelsLike)
	fmt.Fprintf(w, "  humidity %s  wind %s  pressure %s\n", cur.Humidity, cur.Wind, cur.Pressure)

	if v.Chart != nil && len(v.Chart.Labels) > 0 {
		labels := make([]string, len(v.Chart.Labels))
		temps := make([]string, len(v.Chart.Temps))
		for i, l := range v.Chart.Labels {
			t := viewer.Missing
			if v.Chart.Temps[i] != nil {
				t = strconv.FormatFloat(*v.Chart.Temps[i], 'f', 1, 64)
			}
			width := max(len(l), len(t))
			labels[i] = fmt.Sprintf("%*s", width, l)
			temps[i] = fmt.Sprintf("%*s", width, t)
		}
		fmt.Fprintf(w, "  %s\n  %s\n", strings.Join(labels, " "), strings.Join(temps, " "))
	}

	for _, f := range v.Forecast {
		fmt.Fprintf(w, "  %-16s %6s  %s\n", f.Time, f.Temp, f.Condition)
	}
}

func printFavorites(w io.Writer, v viewer.View) {
	if v.FavoritesEmpty != "" {
		fmt.Fprintln(w, v.FavoritesEmpty)
		return
	}
	for i, city := range v.Favorites {
		fmt.Fprintf(w, "%2d. %s\n", i+1, city)
	}
}
