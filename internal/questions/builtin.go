package questions

import "github.com/traitforge/disc-engine/internal/models"

// Default returns the built-in 30-item DISC questionnaire. Used whenever no
// catalog directory is configured or the directory holds no valid catalog.
func Default() *Catalog {
	c, err := NewCatalog(builtinItems)
	if err != nil {
		// The built-in set is validated by tests; a failure here is a
		// programming error.
		panic("questions: built-in catalog invalid: " + err.Error())
	}
	return c
}

func text(en, es string) map[string]string {
	return map[string]string{"en": en, "es": es}
}

var builtinItems = []models.Question{
	// Dominance
	{ID: 1, Category: models.CategoryDominance, Text: text(
		"I take charge of situations quickly.",
		"Tomo el control de las situaciones rápidamente.")},
	{ID: 2, Category: models.CategoryDominance, Text: text(
		"I enjoy competition and measuring myself against others.",
		"Disfruto la competencia y medirme con otros.")},
	{ID: 3, Category: models.CategoryDominance, Text: text(
		"I make decisions fast, even with incomplete information.",
		"Tomo decisiones rápido, incluso con información incompleta.")},
	{ID: 4, Category: models.CategoryDominance, Text: text(
		"I push back directly when I disagree.",
		"Expreso mi desacuerdo de forma directa.")},
	{ID: 5, Category: models.CategoryDominance, Text: text(
		"I am comfortable taking risks to reach a goal.",
		"Me siento cómodo asumiendo riesgos para alcanzar una meta.")},
	{ID: 6, Category: models.CategoryDominance, Text: text(
		"I prefer leading a group over following one.",
		"Prefiero liderar un grupo antes que seguirlo.")},
	{ID: 7, Category: models.CategoryDominance, Text: text(
		"Obstacles motivate me rather than discourage me.",
		"Los obstáculos me motivan en lugar de desanimarme.")},
	{ID: 8, Category: models.CategoryDominance, Text: text(
		"I focus on results more than on process.",
		"Me concentro más en los resultados que en el proceso.")},

	// Influence
	{ID: 9, Category: models.CategoryInfluence, Text: text(
		"I find it easy to start conversations with strangers.",
		"Me resulta fácil iniciar conversaciones con desconocidos.")},
	{ID: 10, Category: models.CategoryInfluence, Text: text(
		"I persuade others with enthusiasm rather than facts.",
		"Convenzo a otros con entusiasmo más que con datos.")},
	{ID: 11, Category: models.CategoryInfluence, Text: text(
		"I enjoy being the center of attention.",
		"Disfruto ser el centro de atención.")},
	{ID: 12, Category: models.CategoryInfluence, Text: text(
		"I keep an optimistic outlook even under pressure.",
		"Mantengo una actitud optimista incluso bajo presión.")},
	{ID: 13, Category: models.CategoryInfluence, Text: text(
		"I build new relationships quickly.",
		"Construyo nuevas relaciones rápidamente.")},
	{ID: 14, Category: models.CategoryInfluence, Text: text(
		"I express my feelings openly.",
		"Expreso mis sentimientos abiertamente.")},
	{ID: 15, Category: models.CategoryInfluence, Text: text(
		"I prefer working with people over working alone.",
		"Prefiero trabajar con personas antes que solo.")},
	{ID: 16, Category: models.CategoryInfluence, Text: text(
		"I improvise comfortably when plans change.",
		"Improviso con comodidad cuando los planes cambian.")},

	// Steadiness
	{ID: 17, Category: models.CategorySteadiness, Text: text(
		"I prefer a stable, predictable routine.",
		"Prefiero una rutina estable y predecible.")},
	{ID: 18, Category: models.CategorySteadiness, Text: text(
		"I am a patient listener.",
		"Soy un oyente paciente.")},
	{ID: 19, Category: models.CategorySteadiness, Text: text(
		"I avoid conflict whenever possible.",
		"Evito el conflicto siempre que es posible.")},
	{ID: 20, Category: models.CategorySteadiness, Text: text(
		"I stay calm when others are agitated.",
		"Mantengo la calma cuando otros están alterados.")},
	{ID: 21, Category: models.CategorySteadiness, Text: text(
		"I finish what I start before taking on something new.",
		"Termino lo que empiezo antes de asumir algo nuevo.")},
	{ID: 22, Category: models.CategorySteadiness, Text: text(
		"I value loyalty highly in my relationships.",
		"Valoro mucho la lealtad en mis relaciones.")},
	{ID: 23, Category: models.CategorySteadiness, Text: text(
		"Sudden changes of plan unsettle me.",
		"Los cambios repentinos de planes me desestabilizan.")},

	// Compliance
	{ID: 24, Category: models.CategoryCompliance, Text: text(
		"I double-check my work for errors.",
		"Reviso mi trabajo en busca de errores.")},
	{ID: 25, Category: models.CategoryCompliance, Text: text(
		"I follow established rules and procedures.",
		"Sigo las reglas y procedimientos establecidos.")},
	{ID: 26, Category: models.CategoryCompliance, Text: text(
		"I gather all the facts before deciding.",
		"Reúno todos los datos antes de decidir.")},
	{ID: 27, Category: models.CategoryCompliance, Text: text(
		"I hold my work to high quality standards.",
		"Exijo altos estándares de calidad en mi trabajo.")},
	{ID: 28, Category: models.CategoryCompliance, Text: text(
		"I prefer clear instructions over open-ended tasks.",
		"Prefiero instrucciones claras antes que tareas abiertas.")},
	{ID: 29, Category: models.CategoryCompliance, Text: text(
		"I plan carefully before acting.",
		"Planifico con cuidado antes de actuar.")},
	{ID: 30, Category: models.CategoryCompliance, Text: text(
		"I notice details others overlook.",
		"Noto detalles que otros pasan por alto.")},
}
