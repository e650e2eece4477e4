package catalog

// carReferenceModel is the CAR thematic reference table.
//
// Groups and themes are listed in declaration order, which is not the
// folder order: Groups sorts by Order. Themes whose canonical name contains
// another theme's name are declared first (APP_Veredas before Vereda,
// APP_em_Area_Consolidada before Area_Consolidada) so first-match-wins
// prefers the specific theme.
var carReferenceModel = []GroupSpec{
	{
		Group: Group{Name: "Area_do_Imovel", Title: "Área do Imóvel", Order: 1},
		Themes: []ThemeSpec{
			{Name: "Area_Liquida_do_Imovel", Label: "Área Líquida do Imóvel", Kind: KindPolygon, Fill: "#868585", Stroke: "#e1b816",
				Aliases: []string{"Area_Liquida"}},
			{Name: "Sede_ou_Ponto_de_Referencia_do_Imovel", Label: "Sede ou Ponto de Referência do Imóvel", Kind: KindPoint, Fill: "#e5bd00", Stroke: "#e5bd00",
				Aliases: []string{"Sede_Imovel", "Ponto_de_Referencia"}},
			{Name: "Area_do_Imovel", Label: "Área do Imóvel", Kind: KindPolygon, Stroke: "#f8cd24",
				Aliases: []string{"Area_Imovel", "Perimetro_Imovel"}},
		},
	},
	{
		Group: Group{Name: "Area_de_Preservacao_Permanente", Title: "Área de Preservação Permanente", Order: 4},
		Themes: []ThemeSpec{
			// APP a recompor
			{Name: "APP_a_Recompor_Rios_ate_10_metros", Label: "Área de Preservação Permanente a Recompor de Rios até 10 metros", Kind: KindPolygon, Fill: "#ffd700", Stroke: "#ffa500"},
			{Name: "APP_a_Recompor_Rios_10_ate_50_metros", Label: "Área de Preservação Permanente a Recompor de Rios de 10 até 50 metros", Kind: KindPolygon, Fill: "#ffd700", Stroke: "#ffa500"},
			{Name: "APP_a_Recompor_Nascentes_ou_Olhos_Dagua_Perenes", Label: "Área de Preservação Permanente a Recompor de Nascentes ou Olhos D'água Perenes", Kind: KindPolygon, Fill: "#ffd700", Stroke: "#ffa500"},
			{Name: "APP_a_Recompor_Veredas", Label: "Área de Preservação Permanente a Recompor de Veredas", Kind: KindPolygon, Fill: "#ffd700", Stroke: "#ffa500"},

			// APP analisada
			{Name: "APP_em_Area_Antropizada_nao_Declarada_Consolidada", Label: "Área de Preservação Permanente em área antropizada não declarada como área consolidada", Kind: KindPolygon, Fill: "#fc2e01", Stroke: "#fc2e01"},
			{Name: "APP_em_Area_Consolidada", Label: "Área de Preservação Permanente em área consolidada", Kind: KindPolygon, Fill: "#831c00", Stroke: "#160804"},
			{Name: "APP_em_Vegetacao_Nativa", Label: "Área de Preservação Permanente em área de Vegetação Nativa", Kind: KindPolygon, Fill: "#9000ab", Stroke: "#9000ab"},
			{Name: "APP_segundo_art_61A_Lei_12651_2012", Label: "APP segundo art. 61-A da Lei nº 12.651/2012", Kind: KindPolygon, Fill: "#e6ff00", Stroke: "#ccdd00"},

			// APP por tipo (outline only)
			{Name: "APP_Rios_ate_10_metros", Label: "Área de Preservação Permanente de Rios até 10 metros", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Rios_10_ate_50_metros", Label: "Área de Preservação Permanente de Rios de 10 até 50 metros", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Rios_50_ate_200_metros", Label: "Área de Preservação Permanente de Rios de 50 até 200 metros", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Rios_200_ate_600_metros", Label: "Área de Preservação Permanente de Rios de 200 até 600 metros", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Rios_mais_600_metros", Label: "Área de Preservação Permanente de Rios com mais de 600 metros", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Nascentes_ou_Olhos_Dagua_Perenes", Label: "Área de Preservação Permanente de Nascentes ou Olhos D'água Perenes", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Lagos_e_Lagoas_Naturais", Label: "Área de Preservação Permanente de Lagos e Lagoas Naturais", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Reservatorio_Artificial_Barramento", Label: "Área de Preservação Permanente de Reservatório artificial decorrente de barramento de cursos d'água", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Topo_Morro", Label: "Área de Preservação Permanente de Topos de Morro", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Manguezais", Label: "Área de Preservação Permanente de Manguezais", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Altitude_Superior_1800_metros", Label: "Área de Preservação Permanente de Áreas com Altitude Superior a 1800 metros", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Borda_Chapada", Label: "Área de Preservação Permanente de Bordas de Chapada", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Restingas", Label: "Área de Preservação Permanente de Restingas", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Declividade_Maior_45_graus", Label: "Área de Preservação Permanente de Áreas com Declividades Superiores a 45 graus", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Banhado", Label: "Área de Preservação Permanente de Banhado", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Veredas", Label: "Área de Preservação Permanente de Veredas", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "APP_Reservatorio_Geracao_Eletrica_ate_24082001", Label: "Área de Preservação Permanente de geração de energia elétrica construído até 24/08/2001", Kind: KindPolygon, Stroke: "#fffb00"},

			// Feições de base
			{Name: "Curso_dagua_natural_ate_10_metros", Label: "Curso d'água natural de até 10 metros", Kind: KindPolygon, Fill: "#a0dcf1", Stroke: "#a0dcf1"},
			{Name: "Curso_dagua_natural_10_a_50_metros", Label: "Curso d'água natural de 10 a 50 metros", Kind: KindPolygon, Fill: "#7fb8ff", Stroke: "#7fb8ff"},
			{Name: "Curso_dagua_natural_50_a_200_metros", Label: "Curso d'água natural de 50 a 200 metros", Kind: KindPolygon, Fill: "#9696ff", Stroke: "#9696ff"},
			{Name: "Curso_dagua_natural_200_a_600_metros", Label: "Curso d'água natural de 200 a 600 metros", Kind: KindPolygon, Fill: "#5656ff", Stroke: "#5656ff"},
			{Name: "Curso_dagua_natural_acima_600_metros", Label: "Curso d'água natural acima de 600 metros", Kind: KindPolygon, Fill: "#0000ff", Stroke: "#0000ff"},
			{Name: "Lago_ou_Lagoa_Natural", Label: "Lago ou lagoa natural", Kind: KindPolygon, Fill: "#2892d3", Stroke: "#93def5"},
			{Name: "Nascente_ou_Olho_dagua_Perene", Label: "Nascente ou olho d'água perene", Kind: KindPoint, Fill: "#2892d3", Stroke: "#93def5",
				Aliases: []string{"Nascente_Perene", "Olho_dagua_Perene"}},
			{Name: "Reservatorio_Artificial", Label: "Reservatório artificial decorrente de barramento ou represamento de cursos d'água naturais", Kind: KindPolygon, Fill: "#258ac7", Stroke: "#c7cacc"},
			{Name: "Manguezal", Label: "Manguezal", Kind: KindPolygon, Fill: "#c4682b", Stroke: "#c4682b"},
			{Name: "Vereda", Label: "Vereda", Kind: KindPolygon, Fill: "#ff8a3d", Stroke: "#ff8a3d"},
			{Name: "Restinga", Label: "Restinga", Kind: KindPolygon, Fill: "#c49473", Stroke: "#c49473"},
			{Name: "Area_Altitude_Superior_1800_metros", Label: "Área com altitude superior a 1.800 metros", Kind: KindPolygon, Fill: "#914d1f", Stroke: "#914d1f"},
			{Name: "Area_Declividade_Maior_45_graus", Label: "Área de declividade maior que 45 graus", Kind: KindPolygon, Fill: "#c49473", Stroke: "#c49473"},
			{Name: "Borda_Chapada", Label: "Borda de chapada", Kind: KindPolygon, Fill: "#ffc7a3", Stroke: "#ffc7a3"},
			{Name: "Area_Topo_Morro", Label: "Área de topo de morro", Kind: KindPolygon, Fill: "#ff9e5e", Stroke: "#ff9e5e",
				Aliases: []string{"Topo_de_Morro"}},
			{Name: "Reservatorio_Geracao_Energia_Eletrica_ate_24082001", Label: "Reservatório de geração de energia elétrica construído até 24/08/2001", Kind: KindPolygon, Fill: "#258ac7", Stroke: "#f57337"},
			{Name: "Banhado", Label: "Banhado", Kind: KindPolygon, Fill: "#55b7b7", Stroke: "#55b7b7"},
		},
	},
	{
		Group: Group{Name: "Cobertura_do_Solo", Title: "Cobertura do Solo", Order: 3},
		Themes: []ThemeSpec{
			{Name: "Area_Consolidada", Label: "Área Consolidada", Kind: KindPolygon, Fill: "#dddddd", Stroke: "#dddddd"},
			{Name: "Remanescente_de_Vegetacao_Nativa", Label: "Remanescente de Vegetação Nativa", Kind: KindPolygon, Fill: "#4fb370", Stroke: "#059a37",
				Aliases: []string{"Remanescente_Vegetacao_Nativa"}},
			{Name: "Area_de_Pousio", Label: "Área de Pousio", Kind: KindPolygon, Fill: "#a0c49b", Stroke: "#a0c49b"},
			{Name: "Area_nao_Classificada", Label: "Área não Classificada", Kind: KindPolygon, Fill: "#e0e0e0", Stroke: "#b0b0b0"},
		},
	},
	{
		Group: Group{Name: "Servidao_Administrativa", Title: "Servidão Administrativa", Order: 2},
		Themes: []ThemeSpec{
			{Name: "Infraestrutura_Publica", Label: "Infraestrutura Pública", Kind: KindPolygon, Fill: "#844646", Stroke: "#844646"},
			{Name: "Utilidade_Publica", Label: "Utilidade Pública", Kind: KindPolygon, Fill: "#9e5353", Stroke: "#9e5353"},
			{Name: "Entorno_Reservatorio_Abastecimento_ou_Geracao_Energia", Label: "Entorno de Reservatório para Abastecimento ou Geração de Energia", Kind: KindPolygon, Fill: "#ad389a", Stroke: "#ad389a"},
			{Name: "Reservatorio_Abastecimento_ou_Geracao_Energia", Label: "Reservatório para Abastecimento ou Geração de Energia", Kind: KindPolygon, Fill: "#7238ad", Stroke: "#7238ad"},
		},
	},
	{
		Group: Group{Name: "Reserva_Legal", Title: "Reserva Legal", Order: 5},
		Themes: []ThemeSpec{
			{Name: "Reserva_Legal_Proposta", Label: "Reserva Legal Proposta", Kind: KindPolygon, Fill: "#289926", Stroke: "#50512c"},
			{Name: "Reserva_Legal_Averbada", Label: "Reserva Legal Averbada", Kind: KindPolygon, Fill: "#289926", Stroke: "#c84905"},
			{Name: "Reserva_Legal_Aprovada_nao_Averbada", Label: "Reserva Legal Aprovada e não Averbada", Kind: KindPolygon, Fill: "#289926", Stroke: "#61cf0b"},
			{Name: "Reserva_Legal_Vinculada_Compensacao", Label: "Reserva legal vinculada à compensação de outro imóvel", Kind: KindPolygon, Fill: "#9ef1b1", Stroke: "#e3add6"},
		},
	},
	{
		Group: Group{Name: "Area_de_Uso_Restrito", Title: "Área de Uso Restrito", Order: 6},
		Themes: []ThemeSpec{
			{Name: "Area_de_Uso_Restrito_Declividade_25_a_45_graus", Label: "Área de Uso Restrito para declividade de 25 a 45 graus", Kind: KindPolygon, Fill: "#ffaab1", Stroke: "#ffaab1"},
			{Name: "Area_de_Uso_Restrito_Regioes_Pantaneras", Label: "Área de Uso Restrito para regiões pantaneras", Kind: KindPolygon, Fill: "#ff606e", Stroke: "#ff606e"},
		},
	},
	{
		Group: Group{Name: "Resumo", Title: "Resumo", Order: 7},
		Themes: []ThemeSpec{
			{Name: "APP_Total", Label: "APP Total", Kind: KindPolygon, Stroke: "#fffb00"},
			{Name: "Area_de_Reserva_Legal_Total", Label: "Área de Reserva Legal Total", Kind: KindPolygon, Fill: "#228b22", Stroke: "#1a6b1a"},
			{Name: "Area_de_Servidao_Administrativa_Total", Label: "Área de Servidão Administrativa Total", Kind: KindPolygon, Fill: "#8e4d7d", Stroke: "#8e4d7d"},
			{Name: "Uso_Restrito_Total", Label: "Uso Restrito total", Kind: KindPolygon, Fill: "#ff8390", Stroke: "#ff8390"},
		},
	},
}
