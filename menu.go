package main

import (
	"context"
	"errors"
	"strings"

	"github.com/nonsonwune/hirehub/config"
	"github.com/nonsonwune/hirehub/export"
	"github.com/nonsonwune/hirehub/filter"
	"github.com/nonsonwune/hirehub/insights"
	"github.com/nonsonwune/hirehub/logger"
	"github.com/nonsonwune/hirehub/models"
	"github.com/nonsonwune/hirehub/nlquery"
	"github.com/nonsonwune/hirehub/nlquery/prompts"
	"github.com/nonsonwune/hirehub/present"
	"github.com/nonsonwune/hirehub/sorter"
	"github.com/nonsonwune/hirehub/store"
)

const (
	mainMenuWidth = 70
	subMenuWidth  = 60
)

// app carries everything a menu or subcommand needs.
type app struct {
	cfg     *config.Config
	store   *store.Store
	con     *console
	printer *present.Printer
	factory nlquery.ModelFactory
}

func newApp(cfg *config.Config, st *store.Store, con *console) *app {
	return &app{
		cfg:     cfg,
		store:   st,
		con:     con,
		printer: present.NewPrinter(con.out),
		factory: nlquery.GeminiFactory(cfg.GeminiModel),
	}
}

// mainMenu runs until the user exits or input ends.
func (a *app) mainMenu(ctx context.Context) error {
	for {
		a.con.menu("HIREHUB DATABASE - MAIN MENU", mainMenuWidth,
			"1. Candidate Management",
			"2. Data & Insights",
			"3. Ask a Question",
			"4. Exit",
		)
		choice, err := a.con.prompt("\nEnter choice (1-4): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = a.candidateMenu(ctx)
		case "2":
			err = a.insightsMenu(ctx)
		case "3":
			err = a.askMenu(ctx)
		case "4":
			a.con.success("Goodbye. Closing HireHub.")
			return nil
		default:
			a.con.fail("Invalid choice")
		}
		if err != nil {
			return err
		}
	}
}

func (a *app) candidateMenu(ctx context.Context) error {
	for {
		a.con.menu("CANDIDATE MANAGEMENT", subMenuWidth,
			"1. Add Candidate",
			"2. Edit Candidate",
			"3. Delete Candidate",
			"4. Search Candidate (quick)",
			"5. Back",
		)
		choice, err := a.con.prompt("\nEnter choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = a.addCandidate(ctx)
		case "2":
			err = a.editCandidate(ctx)
		case "3":
			err = a.deleteCandidate(ctx)
		case "4":
			err = a.quickSearch(ctx)
		case "5":
			return nil
		default:
			a.con.fail("Invalid choice")
		}
		if err != nil {
			return err
		}
	}
}

func (a *app) addCandidate(ctx context.Context) error {
	labels := []string{
		"Enter Name: ",
		"Enter Skills (comma-separated): ",
		"Enter College: ",
		"Enter Degree: ",
		"Enter Field of Study: ",
		"Enter Current Company: ",
		"Enter Position: ",
	}
	values := make([]string, len(labels))
	for i, label := range labels {
		v, err := a.con.prompt(label)
		if err != nil {
			return err
		}
		values[i] = v
	}

	c := models.NewCandidate(values[0], values[1], values[2], values[3], values[4], values[5], values[6])
	if err := a.store.Insert(ctx, c); err != nil {
		a.reportError(err)
		return nil
	}
	a.con.success("Candidate added.")
	return nil
}

func (a *app) editCandidate(ctx context.Context) error {
	name, err := a.con.prompt("Enter candidate name to edit (partial ok): ")
	if err != nil {
		return err
	}
	matches, err := a.store.FindByName(ctx, name)
	if err != nil {
		a.reportError(err)
		return nil
	}
	if matches.Empty() {
		a.con.warn("No matching records.")
		return nil
	}
	if err := a.chooseView(matches); err != nil {
		return err
	}

	raw, err := a.con.prompt("Which column to update? (skills/college/degree/field/company/position): ")
	if err != nil {
		return err
	}
	col, perr := models.ParseColumn(raw)
	if perr != nil || !col.Mutable() {
		a.con.fail("Invalid column choice.")
		return nil
	}
	value, err := a.con.prompt("Enter new value for " + string(col) + ": ")
	if err != nil {
		return err
	}

	n, err := a.store.Update(ctx, col, value, name)
	if err != nil {
		a.reportError(err)
		return nil
	}
	a.con.success("Updated %d record(s).", n)
	return nil
}

func (a *app) deleteCandidate(ctx context.Context) error {
	name, err := a.con.prompt("Enter name (partial) to delete: ")
	if err != nil {
		return err
	}
	matches, err := a.store.FindByName(ctx, name)
	if err != nil {
		a.reportError(err)
		return nil
	}
	if matches.Empty() {
		a.con.warn("No candidate found to delete.")
		return nil
	}
	if err := a.chooseView(matches); err != nil {
		return err
	}

	for {
		answer, err := a.con.prompt("Type 'DELETE' to confirm deletion, or 'B' to go back without deleting: ")
		if err != nil {
			return err
		}
		switch strings.ToUpper(answer) {
		case "DELETE":
			n, err := a.store.Delete(ctx, name)
			if err != nil {
				a.reportError(err)
				return nil
			}
			logger.Log.Info("candidates deleted", "pattern", name, "count", n)
			a.con.success("Deleted.")
			return nil
		case "B":
			a.con.println("Delete cancelled.")
			return nil
		default:
			a.con.fail("Invalid input. Please type 'DELETE' to confirm or 'B' to cancel.")
		}
	}
}

func (a *app) quickSearch(ctx context.Context) error {
	term, err := a.con.prompt("Search by name/skill/college (partial): ")
	if err != nil {
		return err
	}
	rs, err := a.store.QuickSearch(ctx, term)
	if err != nil {
		a.reportError(err)
		return nil
	}
	return a.chooseView(rs)
}

func (a *app) insightsMenu(ctx context.Context) error {
	var last models.ResultSet
	for {
		a.con.menu("DATA & INSIGHTS", subMenuWidth,
			"1. Filter Candidates",
			"2. Sort Candidates (works on last filtered / all)",
			"3. Export (CSV / Excel)",
			"4. View Stats Dashboard",
			"5. Back",
		)
		choice, err := a.con.prompt("\nEnter choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			var rs models.ResultSet
			rs, err = a.filterCandidates(ctx)
			if err == nil && rs != nil {
				last = rs
				err = a.chooseView(last)
			}
		case "2":
			last, err = a.sortCandidates(ctx, last)
		case "3":
			a.exportCandidates(ctx, last)
		case "4":
			a.dashboard(ctx, last)
		case "5":
			return nil
		default:
			a.con.fail("Invalid choice")
		}
		if err != nil {
			return err
		}
	}
}

// filterCandidates prompts for the filter inputs. A nil set with a nil
// error means the query failed and was already reported.
func (a *app) filterCandidates(ctx context.Context) (models.ResultSet, error) {
	a.con.println("\n(You can provide multiple values comma-separated)")
	var spec filter.Spec
	inputs := []struct {
		label string
		dst   *string
	}{
		{"Field(s) (or Enter to skip): ", &spec.Field},
		{"College(s) (or Enter to skip): ", &spec.College},
		{"Degree(s) (or Enter to skip): ", &spec.Degree},
		{"Company(s) (or Enter to skip): ", &spec.Company},
		{"Position(s) (or Enter to skip): ", &spec.Position},
	}
	for _, in := range inputs {
		v, err := a.con.prompt(in.label)
		if err != nil {
			return nil, err
		}
		*in.dst = v
	}
	skills, err := a.con.prompt("Skill(s) (comma separated, AND logic) (or Enter to skip): ")
	if err != nil {
		return nil, err
	}
	spec.Skills = filter.ParseSkills(skills)

	rs, err := a.store.FetchFiltered(ctx, spec)
	if err != nil {
		a.reportError(err)
		return nil, nil
	}
	if rs == nil {
		rs = models.ResultSet{}
	}
	return rs, nil
}

func (a *app) sortCandidates(ctx context.Context, last models.ResultSet) (models.ResultSet, error) {
	if last.Empty() {
		a.con.warn("No filtered results in memory, using all data.")
		all, err := a.store.FetchAll(ctx)
		if err != nil {
			a.reportError(err)
			return last, nil
		}
		last = all
	}

	if last.Empty() {
		a.con.println("No data to sort.")
		return last, a.chooseView(last)
	}

	a.con.println("\nSort options:")
	for i, o := range sorter.Options() {
		a.con.printf("%d. %s\n", i+1, o.Label)
	}
	choice, err := a.con.prompt("Choose sort option (number): ")
	if err != nil {
		return last, err
	}
	key, kerr := sorter.KeyForChoice(choice)
	if kerr != nil {
		a.con.fail("Invalid choice.")
	} else {
		last, _ = sorter.Sort(last, key)
	}
	return last, a.chooseView(last)
}

func (a *app) exportCandidates(ctx context.Context, last models.ResultSet) {
	data := last
	if data.Empty() {
		a.con.warn("No filtered results in memory, exporting entire dataset.")
		all, err := a.store.FetchAll(ctx)
		if err != nil {
			a.reportError(err)
			return
		}
		data = all
	}
	a.writeExport(data, a.cfg.ExportPrefix)
}

func (a *app) writeExport(rs models.ResultSet, prefix string) {
	res, err := export.Write(rs, prefix)
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		a.con.println("Nothing to export.")
		return
	case err != nil:
		logger.Log.Error("export failed", "error", err)
		a.con.fail("Failed to save CSV")
	default:
		a.con.success("Saved CSV -> %s", res.CSV)
	}
	if res.XLSX != "" {
		a.con.success("Saved Excel -> %s", res.XLSX)
	}
}

func (a *app) dashboard(ctx context.Context, last models.ResultSet) {
	data := last
	if data.Empty() {
		all, err := a.store.FetchAll(ctx)
		if err != nil {
			a.reportError(err)
			return
		}
		data = all
	}
	if err := insights.Dashboard(a.con.out, insights.Summarize(data)); err != nil {
		logger.Log.Debug("dashboard incomplete", "error", err)
	}
}

func (a *app) askMenu(ctx context.Context) error {
	for {
		question, err := a.con.prompt("\nAsk about candidates (Enter to go back): ")
		if err != nil {
			return err
		}
		if question == "" {
			return nil
		}
		rs, err := a.answer(ctx, question)
		if err != nil {
			a.reportError(err)
			continue
		}
		if err := a.chooseView(rs); err != nil {
			return err
		}
	}
}

// answer translates question and runs the resulting filter and sort.
func (a *app) answer(ctx context.Context, question string) (models.ResultSet, error) {
	tr, err := a.translator(ctx)
	if err != nil {
		return nil, err
	}
	q, err := tr.Translate(ctx, question)
	if err != nil {
		return nil, err
	}
	a.con.printf("\nInterpreted as: %s\n", nlquery.Describe(q))
	logger.Log.Debug("question translated", "question", question, "filter", nlquery.Describe(q))

	rs, err := a.store.FetchFiltered(ctx, q.Spec)
	if err != nil {
		return nil, err
	}
	if q.Sort != "" {
		return sorter.Sort(rs, q.Sort)
	}
	return rs, nil
}

func (a *app) translator(ctx context.Context) (*nlquery.Translator, error) {
	values := prompts.NewValueMatcher()
	all, err := a.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	values.Load(all)
	return nlquery.NewTranslator(nlquery.NewKeyManager(a.cfg.GeminiKeys), a.factory, values)
}

// chooseView asks for a view until a valid one is given, then renders rs.
func (a *app) chooseView(rs models.ResultSet) error {
	for {
		choice, err := a.con.prompt("Choose view type: (1) Table view (2) Detailed view: ")
		if err != nil {
			return err
		}
		view, verr := present.ParseView(choice)
		if verr != nil {
			a.con.fail("Invalid choice. Please enter 1 or 2.")
			continue
		}
		return a.printer.Render(view, rs)
	}
}

func (a *app) reportError(err error) {
	logger.Log.Error("operation failed", "error", err)
	a.con.fail("Error: %v", err)
}
