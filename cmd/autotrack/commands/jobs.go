package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/autotrack/autotrack/pkg/models"
)

func JobsListAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}
	if err := ac.Jobs.Load(ctx); err != nil {
		return err
	}

	list := ac.Jobs.Search(cmd.String("search"))
	if cmd.Bool("applied") {
		filtered := list[:0:0]
		for _, j := range list {
			if j.Applied {
				filtered = append(filtered, j)
			}
		}
		list = filtered
	}

	if len(list) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION\tAPPLIED\tADDED")
	for _, j := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%s\n",
			j.ID, j.Title, j.Company, j.Location, j.Applied, j.DateAdded.Format("2006-01-02"))
	}
	return w.Flush()
}

func JobsAddAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	draft := models.JobDraft{
		Title:       cmd.String("title"),
		Company:     cmd.String("company"),
		Location:    cmd.String("location"),
		Description: cmd.String("description"),
		Link:        cmd.String("link"),
		Applied:     cmd.Bool("applied"),
		Source:      cmd.String("source"),
	}

	if err := ac.Jobs.Create(ctx, draft); err != nil {
		return err
	}

	fmt.Printf("Job added (%d tracked)\n", ac.Jobs.Len())
	return nil
}

func JobsShowAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: autotrack jobs show <id>")
	}

	j, err := ac.Client.GetJob(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Title:       %s\n", j.Title)
	fmt.Printf("Company:     %s\n", j.Company)
	if j.Location != "" {
		fmt.Printf("Location:    %s\n", j.Location)
	}
	fmt.Printf("Link:        %s\n", j.Link)
	fmt.Printf("Applied:     %v\n", j.Applied)
	fmt.Printf("Added:       %s\n", j.DateAdded.Format("2006-01-02 15:04"))
	if j.Source != "" {
		fmt.Printf("Source:      %s\n", j.Source)
	}
	if len(j.SkillsMatched) > 0 {
		fmt.Printf("Skills:      %v\n", j.SkillsMatched)
	}
	fmt.Printf("Description:\n%s\n", j.Description)
	return nil
}

func JobsEditAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: autotrack jobs edit <id> [flags]")
	}

	// only explicitly-set flags become part of the patch
	var patch models.JobPatch
	if cmd.IsSet("title") {
		v := cmd.String("title")
		patch.Title = &v
	}
	if cmd.IsSet("company") {
		v := cmd.String("company")
		patch.Company = &v
	}
	if cmd.IsSet("location") {
		v := cmd.String("location")
		patch.Location = &v
	}
	if cmd.IsSet("description") {
		v := cmd.String("description")
		patch.Description = &v
	}
	if cmd.IsSet("link") {
		v := cmd.String("link")
		patch.Link = &v
	}
	if cmd.IsSet("applied") {
		v := cmd.Bool("applied")
		patch.Applied = &v
	}
	if cmd.IsSet("source") {
		v := cmd.String("source")
		patch.Source = &v
	}

	if err := ac.Jobs.Update(ctx, id, patch); err != nil {
		return err
	}

	fmt.Println("Job updated")
	return nil
}

func JobsRemoveAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: autotrack jobs rm <id>")
	}

	if !Confirm("Delete this job?", cmd.Bool("yes")) {
		fmt.Println("Aborted")
		return nil
	}

	if err := ac.Jobs.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Println("Job deleted")
	return nil
}

func JobsStatsAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}
	if err := ac.Jobs.Load(ctx); err != nil {
		return err
	}

	s := ac.Jobs.Summary()
	fmt.Printf("Tracked:  %d\n", s.Total)
	fmt.Printf("Applied:  %d (%.0f%%)\n", s.Applied, s.AppliedRate*100)
	fmt.Printf("Pending:  %d\n", s.Pending)
	if len(s.TopSkills) > 0 {
		fmt.Println("Top matched skills:")
		for _, sc := range s.TopSkills {
			fmt.Printf("  %s (%d)\n", sc.Skill, sc.Count)
		}
	}
	return nil
}
