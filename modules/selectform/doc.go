// Package selectform serves the dependent category/subcategory form.
//
// Pages are rendered on the server; with the datastar client loaded, field
// changes are sent as datastar actions and answered with element and signal
// patches over SSE. Without it the form degrades to plain POSTs.
//
//	mod, err := selectform.New(cfg, catalog.NewMemoryRepository(), cookies,
//		selectform.WithLogger(log),
//		selectform.WithBus(bus),
//	)
//	if err != nil {
//		return err
//	}
//	go mod.Run(ctx)
//	defer mod.Close()
//	r.Mount("/", mod.Handle())
package selectform
