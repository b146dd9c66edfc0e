package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"course-authoring/internal/api"
)

const timeLayout = "2006-01-02 15:04:05"

// printer renders views either as aligned tables or as indented JSON
type printer struct {
	out  io.Writer
	json bool
}

func (p printer) emitJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p printer) table(header string, rows func(w io.Writer)) error {
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func (p printer) users(users []*api.UserView) error {
	if p.json {
		return p.emitJSON(users)
	}
	if len(users) == 0 {
		fmt.Fprintln(p.out, "No users found")
		return nil
	}
	return p.table("ID\tNAME\tEMAIL\tROLE", func(w io.Writer) {
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}
	})
}

func (p printer) user(u *api.UserView) error {
	if p.json {
		return p.emitJSON(u)
	}
	fmt.Fprintf(p.out, "Created user %d: %s <%s> (%s)\n", u.ID, u.Name, u.Email, u.Role)
	return nil
}

func (p printer) courses(courses []*api.CourseView) error {
	if p.json {
		return p.emitJSON(courses)
	}
	if len(courses) == 0 {
		fmt.Fprintln(p.out, "No courses found")
		return nil
	}
	return p.table("ID\tTITLE\tINSTRUCTOR\tSTATUS\tPUBLISHED", func(w io.Writer) {
		for _, c := range courses {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", c.ID, c.Title, c.InstructorID, c.Status, formatTime(c.PublishedAt))
		}
	})
}

func (p printer) course(verb string, c *api.CourseView) error {
	if p.json {
		return p.emitJSON(c)
	}
	fmt.Fprintf(p.out, "%s course %d: %s [%s]\n", verb, c.ID, c.Title, c.Status)
	if c.PublishedAt != nil {
		fmt.Fprintf(p.out, "Published at %s\n", formatTime(c.PublishedAt))
	}
	return nil
}

func (p printer) tasks(tasks []*api.TaskView) error {
	if p.json {
		return p.emitJSON(tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(p.out, "No tasks found")
		return nil
	}
	return p.table("ORDER\tID\tTYPE\tSTATEMENT", func(w io.Writer) {
		for _, t := range tasks {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", t.Order, t.ID, t.Type, t.Statement)
		}
	})
}

func (p printer) task(t *api.TaskView) error {
	if p.json {
		return p.emitJSON(t)
	}
	fmt.Fprintf(p.out, "Created %s task %d at order %d in course %d\n", t.Type, t.ID, t.Order, t.CourseID)
	return nil
}

func (p printer) report(r *api.InstructorReportView) error {
	if p.json {
		return p.emitJSON(r)
	}
	fmt.Fprintf(p.out, "Instructor %d: %s\n", r.InstructorID, r.InstructorName)
	fmt.Fprintln(p.out, strings.Repeat("=", 40))
	if len(r.Courses) > 0 {
		err := p.table("ID\tTITLE\tSTATUS\tTASKS\tPUBLISHED", func(w io.Writer) {
			for _, c := range r.Courses {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", c.ID, c.Title, c.Status, c.TaskCount, formatTime(c.PublishedAt))
			}
		})
		if err != nil {
			return err
		}
	} else {
		fmt.Fprintln(p.out, "No courses yet")
	}
	fmt.Fprintln(p.out, strings.Repeat("-", 40))
	fmt.Fprintf(p.out, "Published courses: %d\n", r.TotalPublishedCourses)
	fmt.Fprintf(p.out, "Total tasks:       %d\n", r.TotalTasks)
	return nil
}
