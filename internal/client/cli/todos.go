package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

func (a *App) List(ctx context.Context) error {
	todos, err := a.todoService.List(ctx)
	if err != nil {
		return err
	}
	if len(todos) == 0 {
		printlnFn("No todos yet")
		return nil
	}
	for i, t := range todos {
		printlnFn(fmt.Sprintf("%d. %s", i+1, t))
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	content, err := getSimpleText(a.reader, "Enter todo", os.Stdout)
	if err != nil {
		return err
	}
	t, err := a.todoService.Create(ctx, content)
	if err != nil {
		return err
	}
	printlnFn("Added", t)
	return nil
}

func (a *App) Show(ctx context.Context, ref string) error {
	t, err := a.todoService.Get(ctx, a.resolveID(ref))
	if err != nil {
		return err
	}
	printlnFn(t)
	printlnFn("Created:", t.CreatedAt.Format("2006-01-02 15:04"))
	printlnFn("Updated:", t.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

func (a *App) SetCompleted(ctx context.Context, ref string, completed bool) error {
	t, err := a.todoService.SetCompleted(ctx, a.resolveID(ref), completed)
	if err != nil {
		return err
	}
	printlnFn(t)
	return nil
}

func (a *App) Edit(ctx context.Context, ref string) error {
	content, err := getSimpleText(a.reader, "Enter new text", os.Stdout)
	if err != nil {
		return err
	}
	t, err := a.todoService.Rename(ctx, a.resolveID(ref), content)
	if err != nil {
		return err
	}
	printlnFn(t)
	return nil
}

func (a *App) Delete(ctx context.Context, ref string) error {
	if err := a.todoService.Delete(ctx, a.resolveID(ref)); err != nil {
		return err
	}
	printlnFn("Deleted")
	return nil
}

// resolveID accepts either a todo id or the 1-based position shown by the
// last list.
func (a *App) resolveID(ref string) string {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref
	}
	cached := a.todoService.Cached()
	if n < 1 || n > len(cached) {
		return ref
	}
	return cached[n-1].ID
}
