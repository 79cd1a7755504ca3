// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package catalog loads marketplace datasets and turns them into ranking
catalogs.

A DatasetSource reads the raw records (a JSON or YAML file, or the DuckDB
store). ProjectSource and MentorSource adapt a DatasetSource to
recommend.CatalogSource, mapping each record onto a recommend.Candidate:

	projects: Tags = skills_required, Text[description], Attributes[budget, avg_rating]
	mentors:  Tags = skills, Category = industry,
	          Text[skills, industry, bio],
	          Attributes[hourly_rate, availability_hours, rating, experience_years, mentees_count]

The field and attribute names are exported so ranking profiles and
explanation rules refer to the same keys.
*/
package catalog
