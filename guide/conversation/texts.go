package conversation

const (
	greetingText        = "Добро пожаловать в <b>Музей Пинбола Go Pinball</b>! \n\nВыберите, каким гидом вам будет удобнее воспользоваться."
	sectionMenuText     = "Вы выбрали раздел <b>%s</b>.\n\nОтлично!\nТеперь выберите раздел гида."
	sectionPreambleText = "Хотите больше узнать про <b>%s</b>?\n\nХороший выбор!\nВот все %s Музея <b>GoPinball</b>\nСписок можно (и нужно!) скроллить"
	unrecognizedText    = "Для навигации по боту пользуйтесь кнопками. Бот не запрограммирован на другой текст."

	arcadesListingText  = "О какой из аркад вам рассказать?"
	npaListingText      = "В <b>GoPinball</b> можно поиграть не на всех автоматах.\nНекоторые из экспонатов находятся в специальном музейном уголке.\n\nО каком из них вам рассказать?"
	pinballsListingText = "Гордость музея <b>GoPinball</b> - это крупнейшая в России коллекция пинболов, доступных каждому гостю!\n\nО каком из пинболов вам рассказать?"
	videoListingText    = "Для youtube-канала Музея <b>GoPinball</b> мы снимаем ролики с разбором правил, техник игры в пинбол и другим контентом.\n\nПодписывайтесь: youtube.com/@pinballmuseum\n\nА вот наши видеообзоры:"

	textContentText  = "<b>%s</b>\n\n\n%s"
	videoContentText = "<b>%s</b>\n\n%s"

	unknownExhibitText = "Такого экспоната нет в этом списке. Выберите экспонат кнопкой ниже."
	noIntroText        = "Вступление пока не добавлено."
	noAudioText        = "Для экспоната <b>%s</b> пока нет аудиогида."
)
