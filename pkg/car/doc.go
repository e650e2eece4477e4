// Package car organizes and styles CAR (Cadastro Ambiental Rural) shapefile
// archives downloaded from SICAR.
//
// SICAR delivers a loosely structured ZIP: one shapefile per theme, often
// nested in inner ZIPs, with truncated or inconsistent basenames and a mix
// of coordinate reference systems. This package turns it into an archive
// that opens directly in a GIS viewer: every recognized layer reprojected to
// SIRGAS 2000 (EPSG:4674), renamed to its canonical theme name, placed in
// its thematic group folder and paired with an SLD style.
//
// # Basic Usage
//
//	p := car.NewProcessor()
//	res, out, err := p.Process(ctx, raw)
//	if err != nil {
//	    var fatal *car.FatalInputError
//	    if errors.As(err, &fatal) {
//	        // not a ZIP, or nothing usable inside
//	    }
//	    return err
//	}
//
//	fmt.Printf("%d themes, %d features\n", res.ThemesProcessed, res.FeaturesTotal)
//	os.WriteFile(res.Filename(), out, 0o644)
//
// # Output Layout
//
//	Area_do_Imovel/
//	    Area_do_Imovel.shp .shx .dbf .prj .sld
//	Area_de_Preservacao_Permanente/
//	    Nascente_ou_Olho_dagua_Perene.shp .shx .dbf .prj .sld
//	Outros/
//	    <original basename>.shp .shx .dbf .prj   (unrecognized, unstyled)
//
// Group folders appear in catalog group order. Layers that cannot be used
// (missing .dbf, unreadable geometry, unknown CRS) are left out and
// reported in Result.Errors; they never fail the run.
//
// # Options
//
//	p := car.NewProcessor(
//	    car.WithSLD(true),
//	    car.WithGeoJSON(true),
//	    car.WithClip(car.Bounds{MinLon: -48, MaxLon: -47, MinLat: -16, MaxLat: -15}),
//	    car.WithLogger(log),
//	)
//
// # Styles
//
// Styles come from the theme catalog and can be generated on their own:
//
//	doc, err := car.GenerateSLD("Reserva_Legal_Proposta", car.KindPolygon)
//	legend, err := car.Legend()
//
// # Services
//
// Service chains an ArchiveFetcher, the processor and an ArchiveSink, so a
// host application only supplies the download and delivery ends:
//
//	svc := car.NewService(fetcher, car.NewProcessor(), car.HTTPSink{W: w})
//	res, err := svc.Run(ctx, "MT-5107925-0B6A1C0AA8C14D0E8E9A4B1D8F3C2E7A")
//
// # Thread Safety
//
// Processors, the catalog and the SLD generator are immutable after
// construction and safe for concurrent use.
package car
