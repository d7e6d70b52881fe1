// Package selection coordinates a dependent category/subcategory choice.
//
// A Coordinator owns the selection and two fetch loaders: one for the
// category list and one for the subcategories of the selected category.
// Selecting a category always clears the subcategory and switches the
// subcategory loader key, which supersedes any in-flight subcategory fetch:
//
//	c := selection.New(repo, selection.WithRetry(2, time.Second))
//	defer c.Close()
//
//	_ = c.SelectCategory(ctx, "cat-tech")
//	subs, _ := c.WaitSubCategories(ctx)
//	_ = c.SelectSubCategory(ctx, string(subs.SubCategories[0].ID))
//	sub, err := c.Submit(ctx)
//
// Submit returns validator.ValidationErrors when a field is missing or the
// subcategory does not belong to the category. Facade offers the same
// operations as commands and queries.
package selection
