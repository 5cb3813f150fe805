package survey

const (
	msgWelcome = "👋 ¡Bienvenido/a! Este bot recoge datos para un estudio sobre el español de Canarias.\n" +
		"Elige el tipo de tarea que vas a realizar:"
	msgStartHint      = "Escribe /start para comenzar."
	msgUnknownCommand = "Comando no reconocido. Escribe /start para empezar de nuevo."
	msgUseButtons     = "⚠️ Por favor, elige una de las opciones usando los botones."
	msgInvalidChoice  = "⚠️ Selección no válida. Por favor, elige una opción de la lista."
	msgWriteText      = "⚠️ Por favor, responde con un mensaje de texto."
	msgEmptyText      = "⚠️ La respuesta no puede estar vacía. Inténtalo de nuevo."

	msgConsentAccepted      = "✅ Has aceptado el consentimiento. ¡Gracias por tu confianza! A continuación, comenzaremos a recolectar tus datos."
	msgConsentDeclined      = "🚫 Has rechazado el consentimiento. Lamentamos que no puedas continuar, pero respetamos tu decisión."
	msgConsentAcceptedGroup = "✅ Han aceptado el consentimiento. ¡Gracias por vuestra confianza! A continuación, comenzaremos a recolectar los datos."
	msgConsentDeclinedGroup = "🚫 Han rechazado el consentimiento. Lamentamos que no puedan continuar, pero respetamos vuestra decisión."
	msgPairID               = "🔑 Vuestro identificador de pareja es: %s"
	msgParticipantHeader    = "👤 Participante %d"
	msgSecondParticipant    = "✅ Datos del participante 1 registrados. Ahora es el turno del participante 2."

	msgSelected = "✅ Has seleccionado: %s."

	msgRole          = "📑 Por favor, selecciona cuál es tu papel en esta investigación:"
	msgRoleOther     = "❓ Por favor, especifica tu papel:"
	msgEmail         = "📧 Por favor, proporciona tu correo electrónico:"
	msgEmailInvalid  = "⚠️ El correo electrónico no es válido. Por favor, introduce un correo con el formato usuario@dominio.com:"
	msgName          = "🙂 ¿Cuál es tu nombre?"
	msgBirthYear     = "📅 ¿En qué año naciste?"
	msgYearNotNumber = "💡 Por favor, introduce un año válido (solo números)."
	msgYearRange     = "⚠️ La edad debe estar entre 18 y 120 años. Por favor, introduce un año válido."
	msgGender        = "🏃 ¿Cuál es tu género?"
	msgEducation     = "📚 ¿Cuál es tu nivel educativo?"
	msgEducationOth  = "❓ Por favor, especifica tu nivel educativo:"
	msgDegreeYear    = "📆 ¿En qué año del grado estás?"
	msgDegreeField   = "📖 ¿Qué grado estudias o has estudiado?"
	msgDegreeShort   = "⚠️ El nombre del grado debe tener al menos 2 caracteres."
	msgUniversity    = "🏫 ¿A qué universidad perteneces?"
	msgUniversityOth = "❓ Por favor, escribe el nombre de tu universidad:"
	msgResidence     = "⏳ ¿Cuánto tiempo llevas residiendo en tu lugar de residencia actual?"

	msgQuestionsStart = "📝 ¡Gracias! Comenzamos con las preguntas."
	msgVoiceQuestion  = "🎙 Pregunta de voz:\n%s\n\nResponde con una nota de voz."
	msgVoiceOnly      = "⚠️ Esta pregunta se responde con una nota de voz."
	msgAnswerSaved    = "✅ Respuesta guardada."
	msgAnswerSelected = "%s\n✅ %s"
	msgFollowUp       = "¿Deseas enviar otro audio o continuar con la siguiente pregunta?"
	msgDecideFirst    = "⚠️ Por favor, elige primero si quieres enviar otro audio o continuar."
	msgRecordAnother  = "🎙 Graba otro audio."

	msgFinished = "🎉 ¡Has completado todas las preguntas! ¿Qué deseas hacer ahora?"
	msgFarewell = "👋 ¡Gracias por participar! Hasta pronto."

	msgRetry = "❌ Ha ocurrido un error al guardar tu respuesta. Por favor, inténtalo de nuevo."
	msgFatal = "❌ Algo ha salido mal. Escribe /start para empezar de nuevo."
)
