package services

import (
	"fmt"

	"travelmap-service/internal/domain"
)

// RegionColorizer paints country polygons by the union of visitors across the
// locations inside each country.
type RegionColorizer struct {
	snap      *domain.Snapshot
	resolver  *ColorResolver
	aliases   *AliasTable
	byCountry map[string][]int
}

func NewRegionColorizer(snap *domain.Snapshot, resolver *ColorResolver, aliases *AliasTable) *RegionColorizer {
	byCountry := make(map[string][]int)
	for i, loc := range snap.Locations {
		key := aliases.Normalize(loc.Country)
		if key == "" {
			continue
		}
		byCountry[key] = append(byCountry[key], i)
	}

	return &RegionColorizer{
		snap:      snap,
		resolver:  resolver,
		aliases:   aliases,
		byCountry: byCountry,
	}
}

// VisibleInCountry returns the roster-ordered union of visible visitors over all
// locations whose country normalizes to the feature's admin name.
func (rc *RegionColorizer) VisibleInCountry(admin string, vis domain.Visibility) []string {
	roster := rc.snap.Roster
	union := make(map[string]struct{})
	for _, i := range rc.byCountry[rc.aliases.Normalize(admin)] {
		for _, id := range VisibleAt(roster, vis, rc.snap.Locations[i]) {
			union[id] = struct{}{}
		}
	}

	out := make([]string, 0, len(union))
	for _, v := range roster.Visitors() {
		if _, ok := union[v.ID]; ok {
			out = append(out, v.ID)
		}
	}
	return out
}

// Colorize returns the fill for one country. Countries with no visible visitor
// get the unvisited gray; features without a name have no data.
func (rc *RegionColorizer) Colorize(f domain.CountryFeature, vis domain.Visibility) (domain.FillStyle, error) {
	if f.Admin == "" {
		return domain.FillStyle{Kind: domain.FillNone}, nil
	}

	ids := rc.VisibleInCountry(f.Admin, vis)
	if len(ids) == 0 {
		return Unvisited, nil
	}

	style, err := rc.resolver.Resolve(ids)
	if err != nil {
		return domain.FillStyle{}, fmt.Errorf("colorize country %q: %w", f.Admin, err)
	}
	return style, nil
}

// ColorizeAll colors every feature, in feature order.
func (rc *RegionColorizer) ColorizeAll(features []domain.CountryFeature, vis domain.Visibility) ([]domain.FillStyle, error) {
	out := make([]domain.FillStyle, 0, len(features))
	for _, f := range features {
		style, err := rc.Colorize(f, vis)
		if err != nil {
			return nil, err
		}
		out = append(out, style)
	}
	return out, nil
}
